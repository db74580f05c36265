package service

import (
	"context"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"playfin/internal/modules/playback/domain"
	playbackout "playfin/internal/modules/playback/port/out"
	"playfin/internal/platform/clock"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/ticks"
)

const (
	DefaultTick           = 100 * time.Millisecond
	DefaultReportTimeout  = 2 * time.Second
	defaultConnectTimeout = 5 * time.Second
)

// SyncSummary describes one synchronizer run.
type SyncSummary struct {
	Sent    int
	Failed  int
	Skipped int
	// Last is the most recent sample with a known position.
	Last *domain.Sample
	// Err is ErrDurationUnavailable when reporting was disabled for the run.
	Err error
}

// Synchronizer polls the player and reports throttled progress. One instance
// serves one session.
type Synchronizer struct {
	conn          playbackout.PlayerConn
	tracker       playbackout.Tracker
	clock         clock.Clock
	log           hclog.Logger
	tick          time.Duration
	reportTimeout time.Duration

	item          domain.Item
	playSessionID string
}

func newSynchronizer(s *SessionService, conn playbackout.PlayerConn, item domain.Item, playSessionID string) *Synchronizer {
	return &Synchronizer{
		conn:          conn,
		tracker:       s.tracker,
		clock:         s.clock,
		log:           s.log.Named("sync").With("item", item.ID),
		tick:          s.opts.Tick,
		reportTimeout: s.opts.ReportTimeout,
		item:          item,
		playSessionID: playSessionID,
	}
}

// Run samples every tick until done closes or ctx ends.
func (s *Synchronizer) Run(ctx context.Context, done <-chan struct{}) SyncSummary {
	var summary SyncSummary
	duration := s.item.DurationSeconds()
	reporting := duration > 0
	if !reporting {
		summary.Err = apperrors.ErrDurationUnavailable
		s.log.Warn("progress reporting disabled", "error", summary.Err)
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	state := domain.NewReportState()
	known := domain.StateUnknown

	for {
		select {
		case <-ctx.Done():
			return summary
		case <-done:
			return summary
		case <-ticker.C:
		}

		pos, ok := s.conn.Position(ctx)
		if !ok {
			summary.Skipped++
			continue
		}
		if playing, ok := s.conn.Playing(ctx); ok {
			known = domain.PlayStateOf(playing)
		}
		sample := domain.Sample{PositionSeconds: pos, State: known, SampledAt: s.clock.Now()}
		summary.Last = &sample

		if !reporting {
			continue
		}
		percent, _ := domain.Percent(pos, duration)
		if !state.ShouldReport(sample.SampledAt, percent, sample.State) {
			continue
		}
		if err := s.report(ctx, sample); err != nil {
			summary.Failed++
			s.log.Warn("progress report failed", "position", pos, "error", err)
			continue
		}
		state.Advance(sample.SampledAt, percent, sample.State)
		summary.Sent++
		s.log.Trace("progress reported", "position", pos, "percent", percent, "state", sample.State)
	}
}

func (s *Synchronizer) report(ctx context.Context, sample domain.Sample) error {
	rctx, cancel := context.WithTimeout(ctx, s.reportTimeout)
	defer cancel()
	return s.tracker.ReportProgress(rctx, domain.Report{
		ItemID:        s.item.ID,
		PlaySessionID: s.playSessionID,
		PositionTicks: ticks.FromSeconds(sample.PositionSeconds),
		Paused:        sample.State == domain.StatePaused,
	})
}
