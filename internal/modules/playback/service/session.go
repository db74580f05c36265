package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"playfin/internal/modules/playback/domain"
	playbackout "playfin/internal/modules/playback/port/out"
	"playfin/internal/platform/clock"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/id"
	"playfin/internal/platform/ticks"
)

type Options struct {
	RuntimeDir     string
	ConnectTimeout time.Duration
	ReportTimeout  time.Duration
	Tick           time.Duration
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = defaultConnectTimeout
	}
	if o.ReportTimeout <= 0 {
		o.ReportTimeout = DefaultReportTimeout
	}
	if o.Tick <= 0 {
		o.Tick = DefaultTick
	}
	return o
}

type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type Result struct {
	Item         domain.Item
	StartSeconds int64
	FinalSeconds float64
	Summary      SyncSummary
	StopReported bool
	Aborted      bool
}

// SessionService runs one playback session at a time.
type SessionService struct {
	clock     clock.Clock
	idGen     id.Generator
	items     playbackout.ItemSource
	launcher  playbackout.Launcher
	connector playbackout.Connector
	tracker   playbackout.Tracker
	journal   playbackout.Journal
	opts      Options
	log       hclog.Logger

	mu      sync.Mutex
	running bool
	active  playbackout.PlayerHandle
	aborted bool
}

func NewSessionService(
	clock clock.Clock,
	idGen id.Generator,
	items playbackout.ItemSource,
	launcher playbackout.Launcher,
	connector playbackout.Connector,
	tracker playbackout.Tracker,
	journal playbackout.Journal,
	opts Options,
	log hclog.Logger,
) *SessionService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &SessionService{
		clock:     clock,
		idGen:     idGen,
		items:     items,
		launcher:  launcher,
		connector: connector,
		tracker:   tracker,
		journal:   journal,
		opts:      opts.withDefaults(),
		log:       log.Named("session"),
	}
}

// Play runs a full session for itemID and returns once the player has exited
// and the stopped report has been attempted.
func (s *SessionService) Play(ctx context.Context, itemID string, stdio Stdio) (Result, error) {
	if strings.TrimSpace(itemID) == "" {
		return Result{}, fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	if !s.begin() {
		return Result{}, apperrors.ErrSessionActive
	}
	defer s.finish()

	item, err := s.items.Item(ctx, itemID)
	if err != nil {
		return Result{}, fmt.Errorf("load item: %w", err)
	}
	playSessionID := s.idGen.New()
	log := s.log.With("item", item.ID, "play_session", playSessionID)
	result := Result{Item: item, StartSeconds: item.StartSeconds()}
	record := domain.Record{
		ID:            playSessionID,
		ItemID:        item.ID,
		Name:          item.Name,
		StartedAt:     s.clock.Now(),
		StartTicks:    item.PositionTicks,
		DurationTicks: item.DurationTicks,
		Outcome:       domain.OutcomeFailed,
	}
	defer func() {
		record.EndedAt = s.clock.Now()
		s.appendJournal(record)
	}()

	// A failed start report does not prevent playback.
	startReport := domain.Report{ItemID: item.ID, PlaySessionID: playSessionID, PositionTicks: item.PositionTicks}
	if err := s.withReportTimeout(ctx, func(rctx context.Context) error {
		return s.tracker.ReportSessionStart(rctx, startReport)
	}); err != nil {
		log.Warn("session start report failed", "error", err)
	}

	socket := filepath.Join(s.opts.RuntimeDir, "mpv-"+playSessionID+".sock")
	handle, err := s.launcher.Launch(ctx, playbackout.LaunchRequest{
		URL:          s.items.StreamURL(item.ID),
		SocketPath:   socket,
		StartSeconds: result.StartSeconds,
		Stdin:        stdio.In,
		Stdout:       stdio.Out,
		Stderr:       stdio.Err,
	})
	if err != nil {
		return result, fmt.Errorf("launch player: %w", err)
	}
	defer func() {
		if err := handle.Close(); err != nil {
			log.Warn("player teardown failed", "error", err)
		}
	}()
	if !s.attach(handle) {
		record.Outcome = domain.OutcomeAborted
		result.Aborted = true
		return result, nil
	}
	stopKill := context.AfterFunc(ctx, func() { _ = handle.Kill() })
	defer stopKill()

	conn, err := s.connect(ctx, handle, socket)
	if err != nil {
		if errors.Is(err, apperrors.ErrConnectTimeout) {
			record.Outcome = domain.OutcomeConnectTimeout
		}
		if s.isAborted() {
			record.Outcome = domain.OutcomeAborted
			result.Aborted = true
			return result, nil
		}
		if ctx.Err() == nil && exited(handle) {
			if werr := handle.Wait(); werr != nil {
				log.Warn("player exited before ipc was ready", "error", werr)
			}
			return result, fmt.Errorf("%w: %w", apperrors.ErrPlayerExited, err)
		}
		return result, fmt.Errorf("connect to player: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug("close ipc connection", "error", err)
		}
	}()

	syncer := newSynchronizer(s, conn, item, playSessionID)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Summary = syncer.Run(gctx, handle.Done())
		return nil
	})
	if err := handle.Wait(); err != nil {
		log.Debug("player exited with error", "error", err)
	}
	// The synchronizer must be fully stopped before the final read.
	_ = g.Wait()

	summary := result.Summary
	record.ReportsSent = summary.Sent
	record.ReportsFailed = summary.Failed
	if s.isAborted() {
		record.Outcome = domain.OutcomeAborted
		result.Aborted = true
		return result, nil
	}

	result.FinalSeconds = s.finalPosition(ctx, conn, summary, result.StartSeconds)
	record.EndTicks = ticks.FromSeconds(result.FinalSeconds)
	stopReport := domain.Report{ItemID: item.ID, PlaySessionID: playSessionID, PositionTicks: record.EndTicks}
	if err := s.withReportTimeout(ctx, func(rctx context.Context) error {
		return s.tracker.ReportSessionStopped(rctx, stopReport)
	}); err != nil {
		log.Warn("session stopped report failed", "position", result.FinalSeconds, "error", err)
	} else {
		result.StopReported = true
	}
	record.StopReported = result.StopReported
	record.Outcome = domain.OutcomeCompleted
	log.Info("session finished", "position", result.FinalSeconds, "reports", summary.Sent, "failed", summary.Failed)
	return result, nil
}

// connect polls for the player's socket until it appears, the connect timeout
// passes, or the player exits.
func (s *SessionService) connect(ctx context.Context, handle playbackout.PlayerHandle, socket string) (playbackout.PlayerConn, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-handle.Done():
			cancel()
		case <-cctx.Done():
		}
	}()
	return s.connector.Connect(cctx, socket, s.opts.ConnectTimeout)
}

func exited(handle playbackout.PlayerHandle) bool {
	select {
	case <-handle.Done():
		return true
	default:
		return false
	}
}

// finalPosition reads the player one last time, falling back to the last
// sample and then to the start offset. The player has usually exited by now.
func (s *SessionService) finalPosition(ctx context.Context, conn playbackout.PlayerConn, summary SyncSummary, startSeconds int64) float64 {
	if pos, ok := conn.Position(ctx); ok {
		return pos
	}
	if summary.Last != nil {
		return summary.Last.PositionSeconds
	}
	return float64(startSeconds)
}

// Abort kills the active player and unlinks its socket. It performs no
// network I/O, so the final position of an interrupted session is lost.
func (s *SessionService) Abort() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.aborted = true
	handle := s.active
	s.mu.Unlock()
	if handle == nil {
		return nil
	}
	return handle.Close()
}

func (s *SessionService) History(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", apperrors.ErrInvalidInput)
	}
	return s.journal.Recent(ctx, limit)
}

func (s *SessionService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.aborted = false
	return true
}

func (s *SessionService) finish() {
	s.mu.Lock()
	s.running = false
	s.active = nil
	s.mu.Unlock()
}

func (s *SessionService) attach(handle playbackout.PlayerHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = handle
	return !s.aborted
}

func (s *SessionService) isAborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

func (s *SessionService) withReportTimeout(ctx context.Context, fn func(context.Context) error) error {
	rctx, cancel := context.WithTimeout(ctx, s.opts.ReportTimeout)
	defer cancel()
	return fn(rctx)
}

func (s *SessionService) appendJournal(record domain.Record) {
	if s.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.journal.Append(ctx, record); err != nil {
		s.log.Warn("journal append failed", "item", record.ItemID, "error", err)
	}
}
