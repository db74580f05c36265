package service

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"playfin/internal/modules/browse/domain"
	browseout "playfin/internal/modules/browse/port/out"
	apperrors "playfin/internal/platform/errors"
)

const (
	mediaSeries = "Series"
	mediaMovie  = "Movie"

	indicatorWorkers = 4
)

type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionPlay
)

// BrowseService owns the navigator for one TUI. Catalog and cache calls run
// without the lock held, so commands may overlap.
type BrowseService struct {
	catalog browseout.Catalog
	status  browseout.StatusSource
	log     hclog.Logger

	mu  sync.Mutex
	nav *domain.Navigator
}

func NewBrowseService(catalog browseout.Catalog, status browseout.StatusSource, log hclog.Logger) *BrowseService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &BrowseService{catalog: catalog, status: status, log: log.Named("browse"), nav: domain.NewNavigator()}
}

func RootFrame() domain.Frame {
	return domain.Frame{
		Title: "Select Media Type",
		Kind:  domain.KindMediaTypes,
		Entries: []domain.Entry{
			{ID: mediaSeries, Label: "TV Shows", Type: "MediaType", Resolved: true},
			{ID: mediaMovie, Label: "Movies", Type: "MediaType", Resolved: true},
		},
	}
}

// Start discards any navigation state and shows the root frame.
func (s *BrowseService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = domain.NewNavigator()
	s.nav.Push(RootFrame())
}

// Snapshot calls fn with the navigator under the lock.
func (s *BrowseService) Snapshot(fn func(nav *domain.Navigator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.nav)
}

func (s *BrowseService) Move(delta int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Move(delta)
}

func (s *BrowseService) Escape() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Escape()
}

func (s *BrowseService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Cancel()
}

func (s *BrowseService) SetFilter(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.SetFilter(q)
}

// Confirm selects the entry under the cursor. Entries of leaf frames are
// returned for playback; anything else opens a child frame. A catalog error
// leaves the navigator on the current frame.
func (s *BrowseService) Confirm(ctx context.Context) (Action, domain.Entry, error) {
	s.mu.Lock()
	entry, ok := s.nav.Confirm()
	var parent domain.Frame
	if f, found := s.nav.Current(); found {
		parent = *f
	}
	depth := s.nav.Depth()
	s.mu.Unlock()

	if !ok {
		return ActionNone, domain.Entry{}, nil
	}
	if parent.Kind.Leaf() {
		return ActionPlay, entry, nil
	}

	child, err := s.open(ctx, parent, entry)
	if err != nil {
		return ActionNone, entry, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The user may have moved on while the catalog call was in flight.
	if s.nav.Depth() != depth || s.nav.State() == domain.StateExiting {
		return ActionNone, entry, nil
	}
	s.nav.Push(child)
	return ActionOpen, entry, nil
}

func (s *BrowseService) open(ctx context.Context, parent domain.Frame, entry domain.Entry) (domain.Frame, error) {
	switch parent.Kind {
	case domain.KindMediaTypes:
		kind, title := domain.KindShows, "TV Shows"
		if entry.ID == mediaMovie {
			kind, title = domain.KindMovies, "Movies"
		}
		items, err := s.catalog.ListItems(ctx, entry.ID)
		if err != nil {
			return domain.Frame{}, err
		}
		return newFrame(title, kind, "", "", items), nil
	case domain.KindShows:
		items, err := s.catalog.ListSeasons(ctx, entry.ID)
		if err != nil {
			return domain.Frame{}, err
		}
		for i := range items {
			if items[i].SeriesID == "" {
				items[i].SeriesID = entry.ID
			}
		}
		return newFrame(entry.Label, domain.KindSeasons, entry.ID, "", items), nil
	case domain.KindSeasons:
		items, err := s.catalog.ListEpisodes(ctx, parent.ParentID, entry.ID)
		if err != nil {
			return domain.Frame{}, err
		}
		return newFrame(parent.Title+" / "+entry.Label, domain.KindEpisodes, entry.ID, parent.ParentID, items), nil
	default:
		return domain.Frame{}, fmt.Errorf("%w: %s entries cannot be opened", apperrors.ErrInvalidInput, parent.Kind)
	}
}

func newFrame(title string, kind domain.FrameKind, parentID, seriesID string, items []domain.Item) domain.Frame {
	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.Entry())
	}
	return domain.Frame{
		Title:         title,
		Kind:          kind,
		ParentID:      parentID,
		SeriesID:      seriesID,
		Entries:       entries,
		EscapeEnabled: true,
	}
}

// Refresh re-fetches a leaf frame so its own watched flags are current.
// Show and season aggregates stay as cached.
func (s *BrowseService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	f, ok := s.nav.Current()
	var frame domain.Frame
	if ok {
		frame = *f
	}
	depth := s.nav.Depth()
	s.mu.Unlock()
	if !ok || !frame.Kind.Leaf() {
		return nil
	}

	var (
		items []domain.Item
		err   error
	)
	if frame.Kind == domain.KindEpisodes {
		items, err = s.catalog.ListEpisodes(ctx, frame.SeriesID, frame.ParentID)
	} else {
		items, err = s.catalog.ListItems(ctx, mediaMovie)
	}
	if err != nil {
		return err
	}
	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.Entry())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nav.Depth() == depth {
		s.nav.ReplaceEntries(entries)
	}
	return nil
}

// ResolveIndicators computes indicators for the current frame's unresolved
// entries. Lookups run concurrently; the cache collapses duplicate fetches.
func (s *BrowseService) ResolveIndicators(ctx context.Context) error {
	s.mu.Lock()
	var pending []domain.Entry
	if f, ok := s.nav.Current(); ok {
		for _, e := range f.Entries {
			if !e.Resolved {
				pending = append(pending, e)
			}
		}
	}
	s.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	results := make([]domain.Indicator, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(indicatorWorkers)
	for i, e := range pending {
		g.Go(func() error {
			results[i] = s.indicator(gctx, e)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range pending {
		s.nav.SetIndicator(e.ID, results[i])
	}
	return nil
}

func (s *BrowseService) indicator(ctx context.Context, e domain.Entry) domain.Indicator {
	if e.Own.Any() {
		return domain.ResolveIndicator(e.Own, domain.Status{})
	}
	var (
		agg domain.Status
		err error
	)
	switch e.Type {
	case "Series":
		agg, err = s.status.ShowStatus(ctx, e.ID)
	case "Season":
		if e.SeriesID == "" {
			return domain.IndicatorNone
		}
		agg, err = s.status.SeasonStatus(ctx, e.SeriesID, e.ID)
	default:
		return domain.IndicatorNone
	}
	if err != nil {
		s.log.Debug("watch status unavailable", "entry", e.ID, "type", e.Type, "error", err)
		return domain.IndicatorNone
	}
	return domain.ResolveIndicator(e.Own, agg)
}
