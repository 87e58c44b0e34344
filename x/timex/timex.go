// Package timex turns configured rates and counts into durations.
package timex

import "time"

// Period returns the period of a rate in Hz. 0 reads as 1 Hz.
func Period(hz uint32) time.Duration {
	if hz == 0 {
		hz = 1
	}
	return time.Second / time.Duration(hz)
}

// Ms converts a millisecond count; negative counts read as 0.
func Ms(n int) time.Duration {
	if n < 0 {
		return 0
	}
	return time.Duration(n) * time.Millisecond
}

// Sec converts a second count; negative counts read as 0.
func Sec(n int) time.Duration {
	if n < 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
