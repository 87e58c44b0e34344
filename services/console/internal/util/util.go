// services/console/internal/util/util.go
package util

import "time"

// ResetTimer re-arms t for d, discarding a stale expiry.
func ResetTimer(t *time.Timer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	if !t.Stop() {
		DrainTimer(t)
	}
	t.Reset(d)
}

func DrainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}

// StoppedTimer returns a timer that will not fire until reset.
func StoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		DrainTimer(t)
	}
	return t
}
