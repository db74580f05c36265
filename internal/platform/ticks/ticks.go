// Package ticks converts between seconds and the Jellyfin tick unit
// (100ns, 10,000,000 per second).
package ticks

const PerSecond int64 = 10_000_000

// FromSeconds truncates toward zero.
func FromSeconds(seconds float64) int64 {
	return int64(seconds * float64(PerSecond))
}

// ToSeconds is exact for the fractional part and is used for percentages.
func ToSeconds(t int64) float64 {
	return float64(t) / float64(PerSecond)
}

// WholeSeconds floors a tick count to whole seconds; used for player start offsets.
func WholeSeconds(t int64) int64 {
	if t <= 0 {
		return 0
	}
	return t / PerSecond
}
