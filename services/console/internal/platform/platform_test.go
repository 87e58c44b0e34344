//go:build !rp2040

package platform

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oledconsole-go/services/config"
	"oledconsole-go/services/console/internal/halcore"
	"oledconsole-go/services/console/internal/sched"
)

func TestFakePinEdges(t *testing.T) {
	p := NewFakePin(4)
	var rises int
	require.NoError(t, p.SetIRQ(halcore.EdgeRising, func() { rises++ }))
	p.Set(true)
	p.Set(true) // no edge
	p.Set(false)
	p.Toggle()
	require.Equal(t, 2, rises)

	require.NoError(t, p.ClearIRQ())
	p.Set(false)
	p.Set(true)
	require.Equal(t, 2, rises)

	require.NoError(t, p.ConfigureInput(halcore.PullUp))
	require.True(t, p.Get())
	require.NoError(t, p.ConfigureOutput(false))
	require.True(t, p.IsOutput())
	require.Equal(t, 4, p.Number())
}

func TestSpinProducesQuadratureEdges(t *testing.T) {
	a, b := NewFakePin(2), NewFakePin(3)
	var seq []string
	require.NoError(t, a.SetIRQ(halcore.EdgeRising, func() { seq = append(seq, "A") }))
	require.NoError(t, b.SetIRQ(halcore.EdgeRising, func() { seq = append(seq, "B") }))
	Spin(a, b, 2, 0)
	Spin(a, b, -1, 0)
	require.Equal(t, []string{"A", "B", "A", "B", "B", "A"}, seq)
}

type countPender struct{ n int }

func (c *countPender) Pend(sched.Vector) error { c.n++; return nil }

func TestTimerFlagAndStart(t *testing.T) {
	p := &countPender{}
	tm := NewTimer(halcore.VectorTIM, p)
	tm.Fire()
	require.True(t, tm.Pending())
	require.True(t, tm.Asserted())
	tm.Clear()
	require.False(t, tm.Asserted())
	require.Equal(t, 1, p.n)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm2 := NewTimer(halcore.VectorTIM, &safePender{})
	tm2.Start(ctx, 200)
	require.Eventually(t, func() bool { return tm2.Fired() >= 2 }, time.Second, 5*time.Millisecond)
}

type safePender struct{}

func (safePender) Pend(sched.Vector) error { return nil }

func TestOpenHostBoard(t *testing.T) {
	cfg, err := config.Embedded("host")
	require.NoError(t, err)

	var tx bytes.Buffer
	rx := bytes.NewBufferString("hello\n")
	b, err := Open(context.Background(), cfg, Options{RX: rx, TX: &tx})
	require.NoError(t, err)
	defer b.Shutdown()

	require.Equal(t, "host", b.Name)
	w, h := b.Display.Size()
	require.Equal(t, int16(256), w)
	require.Equal(t, int16(64), h)

	buf := make([]byte, 16)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, err := b.RX.RecvSomeContext(ctx, buf)
	require.NoError(t, err)
	require.Equal(t, "hello\n"[:n], string(buf[:n]))

	_, err = b.TX.Write([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, "x", tx.String())
}

func TestOpenHostBoardWithoutSerial(t *testing.T) {
	cfg, err := config.Embedded("host")
	require.NoError(t, err)
	b, err := Open(context.Background(), cfg, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = b.RX.RecvSomeContext(ctx, make([]byte, 4))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	b.Shutdown()
}
