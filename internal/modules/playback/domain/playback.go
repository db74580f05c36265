package domain

import (
	"math"
	"time"

	"playfin/internal/platform/ticks"
)

const (
	// ThrottleWindow is the minimum spacing between two progress reports.
	ThrottleWindow = time.Second
	// MinPercentDelta is the smallest position change worth reporting on its own.
	MinPercentDelta = 1.0
)

// Item is the immutable snapshot a session plays.
type Item struct {
	ID            string
	Name          string
	DurationTicks int64
	PositionTicks int64
	Played        bool
}

// StartSeconds is the resume offset handed to the player, floored.
func (i Item) StartSeconds() int64 {
	return ticks.WholeSeconds(i.PositionTicks)
}

func (i Item) DurationSeconds() float64 {
	return ticks.ToSeconds(i.DurationTicks)
}

type PlayState int

const (
	StateUnknown PlayState = iota
	StatePlaying
	StatePaused
)

func PlayStateOf(playing bool) PlayState {
	if playing {
		return StatePlaying
	}
	return StatePaused
}

func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

type Sample struct {
	PositionSeconds float64
	State           PlayState
	SampledAt       time.Time
}

// Percent of the item covered by position. ok is false when the duration is
// unknown, in which case nothing may be reported.
func Percent(positionSeconds, durationSeconds float64) (float64, bool) {
	if durationSeconds <= 0 {
		return 0, false
	}
	return positionSeconds / durationSeconds * 100, true
}

// ReportState is the last successfully reported progress.
type ReportState struct {
	LastAt      time.Time
	LastPercent float64
	LastState   PlayState
}

func NewReportState() ReportState {
	return ReportState{LastPercent: -1, LastState: StateUnknown}
}

// ShouldReport applies the throttle: at least ThrottleWindow since the last
// report, and either a MinPercentDelta move or a play-state change.
func (r ReportState) ShouldReport(now time.Time, percent float64, state PlayState) bool {
	if !r.LastAt.IsZero() && now.Sub(r.LastAt) < ThrottleWindow {
		return false
	}
	return math.Abs(percent-r.LastPercent) >= MinPercentDelta || state != r.LastState
}

func (r *ReportState) Advance(now time.Time, percent float64, state PlayState) {
	r.LastAt = now
	r.LastPercent = percent
	r.LastState = state
}

// Report is the payload of every remote playback notification.
type Report struct {
	ItemID        string
	PlaySessionID string
	PositionTicks int64
	Paused        bool
}
