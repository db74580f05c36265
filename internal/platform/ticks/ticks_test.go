package ticks_test

import (
	"testing"

	"playfin/internal/platform/ticks"
)

func TestRoundTripWithinTruncation(t *testing.T) {
	t.Parallel()
	for _, in := range []int64{0, 1, 9_999_999, 10_000_000, 12_345_678_901, 72_000_000_000} {
		got := ticks.FromSeconds(ticks.ToSeconds(in))
		diff := got - in
		if diff < -1 || diff > 1 {
			t.Fatalf("round trip %d -> %d", in, got)
		}
	}
}

func TestWholeSecondsFloors(t *testing.T) {
	t.Parallel()
	if got := ticks.WholeSeconds(19_999_999); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := ticks.WholeSeconds(-5); got != 0 {
		t.Fatalf("negative ticks should clamp to 0, got %d", got)
	}
	if got := ticks.FromSeconds(1.5); got != 15_000_000 {
		t.Fatalf("expected 15000000, got %d", got)
	}
}
