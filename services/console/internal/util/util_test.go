package util

import (
	"testing"
	"time"
)

func TestStoppedTimerDoesNotFire(t *testing.T) {
	tm := StoppedTimer()
	select {
	case <-tm.C:
		t.Fatal("stopped timer fired")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestResetTimerDiscardsStaleExpiry(t *testing.T) {
	tm := time.NewTimer(time.Millisecond)
	time.Sleep(5 * time.Millisecond) // expiry sits in the channel

	ResetTimer(tm, time.Hour)
	select {
	case <-tm.C:
		t.Fatal("stale expiry delivered after reset")
	case <-time.After(20 * time.Millisecond):
	}

	ResetTimer(tm, -time.Second)
	select {
	case <-tm.C:
	case <-time.After(time.Second):
		t.Fatal("negative duration should fire immediately")
	}
}
