package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriod(t *testing.T) {
	require.Equal(t, 100*time.Millisecond, Period(10))
	require.Equal(t, time.Second, Period(0))
	require.Equal(t, time.Millisecond, Period(1000))
}

func TestCounts(t *testing.T) {
	require.Equal(t, 20*time.Millisecond, Ms(20))
	require.Equal(t, time.Duration(0), Ms(-5))
	require.Equal(t, 30*time.Second, Sec(30))
	require.Equal(t, time.Duration(0), Sec(-1))
}
