package emby

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickConversionExactSeconds(t *testing.T) {
	for _, seconds := range []float64{0, 1, 42, 90, 3600, 86400} {
		ticks := SecondsToTicks(seconds)
		assert.Equal(t, int64(seconds)*TicksPerSecond, ticks)
		assert.Equal(t, seconds, TicksToSeconds(ticks))
	}
}

func TestTickConversionRoundTripLoss(t *testing.T) {
	// Fractional positions survive the round trip within one tick.
	for _, seconds := range []float64{0.1, 1.5, 42.0421337, 7199.999, 123.456789} {
		ticks := SecondsToTicks(seconds)
		back := TicksToSeconds(ticks)
		assert.InDelta(t, seconds, back, 1.0/float64(TicksPerSecond), "seconds=%v", seconds)
	}
}

func TestTickConversionNegativeClampsInCallers(t *testing.T) {
	// The converters are symmetric; clamping is the caller's job.
	assert.Equal(t, int64(-TicksPerSecond), SecondsToTicks(-1))
	assert.Equal(t, -1.0, TicksToSeconds(-TicksPerSecond))
}
