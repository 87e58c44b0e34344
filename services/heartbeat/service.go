// Package heartbeat logs a periodic health line built from a snapshot.
package heartbeat

import (
	"context"
	"log/slog"
	"time"
)

// Snapshot returns the attributes of one heartbeat line.
type Snapshot func() []slog.Attr

type Service struct {
	Interval time.Duration
	Log      *slog.Logger
	Snapshot Snapshot
}

func (s *Service) serviceLoop(ctx context.Context) {
	tick := time.NewTicker(s.Interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Log.Debug("heartbeat:stopping")
			return
		case <-tick.C:
			s.Beat(ctx)
		}
	}
}

// Beat logs one line now.
func (s *Service) Beat(ctx context.Context) {
	var attrs []slog.Attr
	if s.Snapshot != nil {
		attrs = s.Snapshot()
	}
	s.Log.LogAttrs(ctx, slog.LevelInfo, "heartbeat", attrs...)
}

// Start the heartbeat service. A zero Interval leaves it off.
func (s *Service) Start(ctx context.Context) error {
	if s.Interval <= 0 {
		return nil
	}
	if s.Log == nil {
		s.Log = slog.Default()
	}
	go s.serviceLoop(ctx)
	return nil
}
