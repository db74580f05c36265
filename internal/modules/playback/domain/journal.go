package domain

import "time"

type Outcome string

const (
	OutcomeCompleted      Outcome = "completed"
	OutcomeAborted        Outcome = "aborted"
	OutcomeConnectTimeout Outcome = "connect_timeout"
	OutcomeFailed         Outcome = "failed"
)

// Record is one row of the local playback journal. It is a history of what
// happened and is never replayed against the server.
type Record struct {
	ID            string
	ItemID        string
	Name          string
	StartedAt     time.Time
	EndedAt       time.Time
	StartTicks    int64
	EndTicks      int64
	DurationTicks int64
	ReportsSent   int
	ReportsFailed int
	StopReported  bool
	Outcome       Outcome
}

// Percent watched at the end of the session, or 0 for unknown durations.
func (r Record) Percent() float64 {
	if r.DurationTicks <= 0 {
		return 0
	}
	return float64(r.EndTicks) / float64(r.DurationTicks) * 100
}
