package heartbeat

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestBeatLogsSnapshotAttrs(t *testing.T) {
	var buf lockedBuffer
	s := &Service{
		Log:      slog.New(slog.NewTextHandler(&buf, nil)),
		Snapshot: func() []slog.Attr { return []slog.Attr{slog.Int("runs", 7)} },
	}
	s.Beat(context.Background())
	require.Contains(t, buf.String(), "msg=heartbeat")
	require.Contains(t, buf.String(), "runs=7")
}

func TestStartTicksUntilCancelled(t *testing.T) {
	var buf lockedBuffer
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{Interval: 5 * time.Millisecond, Log: slog.New(slog.NewTextHandler(&buf, nil))}
	require.NoError(t, s.Start(ctx))
	require.Eventually(t, func() bool {
		return strings.Count(buf.String(), "heartbeat") >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()
}

func TestZeroIntervalIsOff(t *testing.T) {
	s := &Service{}
	require.NoError(t, s.Start(context.Background()))
	require.Nil(t, s.Log)
}
