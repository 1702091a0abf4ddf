package emby

import "math"

// TicksPerSecond is the server's time unit: one tick is 100 nanoseconds.
const TicksPerSecond int64 = 10_000_000

// SecondsToTicks converts a seconds-based position to server ticks.
// Exact for integer-second inputs; rounds to the nearest tick otherwise.
func SecondsToTicks(seconds float64) int64 {
	return int64(math.Round(seconds * float64(TicksPerSecond)))
}

// TicksToSeconds converts a server tick position to seconds.
func TicksToSeconds(ticks int64) float64 {
	return float64(ticks) / float64(TicksPerSecond)
}
