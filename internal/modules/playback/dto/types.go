package dto

import (
	"io"
	"time"
)

type PlayInput struct {
	ItemID string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type PlayOutput struct {
	ItemID              string
	Name                string
	StartSeconds        int64
	FinalSeconds        float64
	ReportsSent         int
	ReportsFailed       int
	DurationUnavailable bool
	StopReported        bool
	Aborted             bool
}

type HistoryInput struct {
	Limit int
}

type HistoryEntry struct {
	ItemID       string
	Name         string
	StartedAt    time.Time
	EndedAt      time.Time
	StartSeconds int64
	EndSeconds   int64
	Percent      float64
	Outcome      string
	StopReported bool
}
