package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMockClockTickMsAdvancesWithClock(t *testing.T) {
	c, mock := NewMockClock()

	require.EqualValues(t, 0, c.TickMs())

	mock.Add(1050 * time.Millisecond)
	require.EqualValues(t, 1050, c.TickMs())
}

func TestMockClockTickUs(t *testing.T) {
	c, mock := NewMockClock()

	mock.Add(2500 * time.Microsecond)
	require.EqualValues(t, 2500, c.TickUs())
}
