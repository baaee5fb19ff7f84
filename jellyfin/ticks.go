package jellyfin

import "time"

// The server expresses media positions in ticks of 100 nanoseconds.
const nanosPerTick = 100

// TicksToDuration converts a server tick count to a time.Duration.
func TicksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks * nanosPerTick)
}

// DurationToTicks converts a time.Duration to a server tick count.
func DurationToTicks(d time.Duration) int64 {
	return d.Nanoseconds() / nanosPerTick
}
