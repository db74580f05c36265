package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"playfin/internal/modules/browse/domain"
	"playfin/internal/modules/browse/service"
)

type fakeCatalog struct {
	mu       sync.Mutex
	items    map[string][]domain.Item
	seasons  map[string][]domain.Item
	episodes map[string][]domain.Item
	err      error
	calls    []string
}

func (c *fakeCatalog) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeCatalog) ListItems(_ context.Context, itemType string) ([]domain.Item, error) {
	c.record("items:" + itemType)
	if c.err != nil {
		return nil, c.err
	}
	return c.items[itemType], nil
}

func (c *fakeCatalog) ListSeasons(_ context.Context, showID string) ([]domain.Item, error) {
	c.record("seasons:" + showID)
	if c.err != nil {
		return nil, c.err
	}
	return c.seasons[showID], nil
}

func (c *fakeCatalog) ListEpisodes(_ context.Context, showID, seasonID string) ([]domain.Item, error) {
	c.record("episodes:" + showID + "/" + seasonID)
	if c.err != nil {
		return nil, c.err
	}
	return c.episodes[seasonID], nil
}

type fakeStatus struct {
	mu      sync.Mutex
	shows   map[string]domain.Status
	seasons map[string]domain.Status
	err     error
	asked   []string
}

func (s *fakeStatus) ShowStatus(_ context.Context, showID string) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, "show:"+showID)
	return s.shows[showID], s.err
}

func (s *fakeStatus) SeasonStatus(_ context.Context, showID, seasonID string) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, "season:"+showID+"/"+seasonID)
	return s.seasons[seasonID], s.err
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		items: map[string][]domain.Item{
			"Series": {{ID: "show-a", Name: "Alpha", Type: "Series"}, {ID: "show-b", Name: "Beta", Type: "Series"}},
			"Movie":  {{ID: "m1", Name: "Film", Type: "Movie", Played: true, HasUserData: true}},
		},
		seasons: map[string][]domain.Item{
			"show-a": {{ID: "s1", Name: "Season 1", Type: "Season"}, {ID: "s2", Name: "Season 2", Type: "Season"}},
		},
		episodes: map[string][]domain.Item{
			"s1": {{ID: "e1", Name: "Pilot", Type: "Episode", Index: 1, PositionTicks: 5, HasUserData: true}},
		},
	}
}

func current(t *testing.T, svc *service.BrowseService) domain.Frame {
	t.Helper()
	var f domain.Frame
	svc.Snapshot(func(nav *domain.Navigator) {
		cur, ok := nav.Current()
		if !ok {
			t.Fatalf("no current frame")
		}
		f = *cur
	})
	return f
}

func TestConfirmWalksDownToEpisodes(t *testing.T) {
	t.Parallel()
	catalog := newCatalog()
	svc := service.NewBrowseService(catalog, &fakeStatus{}, nil)
	svc.Start()

	for _, want := range []domain.FrameKind{domain.KindShows, domain.KindSeasons, domain.KindEpisodes} {
		action, _, err := svc.Confirm(context.Background())
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if action != service.ActionOpen {
			t.Fatalf("expected open, got %v", action)
		}
		if got := current(t, svc).Kind; got != want {
			t.Fatalf("expected %s frame, got %s", want, got)
		}
	}

	frame := current(t, svc)
	if frame.ParentID != "s1" || frame.SeriesID != "show-a" {
		t.Fatalf("unexpected episode frame: parent=%q series=%q", frame.ParentID, frame.SeriesID)
	}
	if frame.Entries[0].Label != "1. Pilot" {
		t.Fatalf("unexpected label %q", frame.Entries[0].Label)
	}

	action, entry, err := svc.Confirm(context.Background())
	if err != nil || action != service.ActionPlay || entry.ID != "e1" {
		t.Fatalf("expected play e1, got %v %+v %v", action, entry, err)
	}
}

func TestCatalogFailureStaysOnParent(t *testing.T) {
	t.Parallel()
	catalog := newCatalog()
	catalog.err = errors.New("boom")
	svc := service.NewBrowseService(catalog, &fakeStatus{}, nil)
	svc.Start()

	action, _, err := svc.Confirm(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if action != service.ActionNone {
		t.Fatalf("expected no action, got %v", action)
	}
	svc.Snapshot(func(nav *domain.Navigator) {
		if nav.Depth() != 1 {
			t.Fatalf("expected to stay on root, depth %d", nav.Depth())
		}
	})
}

func TestResolveIndicatorsForSeasons(t *testing.T) {
	t.Parallel()
	catalog := newCatalog()
	status := &fakeStatus{seasons: map[string]domain.Status{
		"s1": {Watched: true, Partial: true},
		"s2": {},
	}}
	svc := service.NewBrowseService(catalog, status, nil)
	svc.Start()
	for i := 0; i < 2; i++ {
		if _, _, err := svc.Confirm(context.Background()); err != nil {
			t.Fatalf("confirm: %v", err)
		}
	}

	if err := svc.ResolveIndicators(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	frame := current(t, svc)
	if frame.Entries[0].Indicator != domain.IndicatorWatched || !frame.Entries[0].Resolved {
		t.Fatalf("unexpected s1 entry: %+v", frame.Entries[0])
	}
	if frame.Entries[1].Indicator != domain.IndicatorNone || !frame.Entries[1].Resolved {
		t.Fatalf("unexpected s2 entry: %+v", frame.Entries[1])
	}
	status.mu.Lock()
	defer status.mu.Unlock()
	if len(status.asked) != 2 {
		t.Fatalf("expected two season lookups, got %v", status.asked)
	}
	for _, q := range status.asked {
		if q != "season:show-a/s1" && q != "season:show-a/s2" {
			t.Fatalf("unexpected lookup %q", q)
		}
	}
}

func TestStatusErrorsDegradeToNoIndicator(t *testing.T) {
	t.Parallel()
	status := &fakeStatus{shows: map[string]domain.Status{"show-a": {Watched: true}}, err: errors.New("offline")}
	svc := service.NewBrowseService(newCatalog(), status, nil)
	svc.Start()
	if _, _, err := svc.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := svc.ResolveIndicators(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, e := range current(t, svc).Entries {
		if e.Indicator != domain.IndicatorNone || !e.Resolved {
			t.Fatalf("expected resolved with no indicator: %+v", e)
		}
	}
}

func TestOwnFlagsSkipTheCache(t *testing.T) {
	t.Parallel()
	status := &fakeStatus{}
	svc := service.NewBrowseService(newCatalog(), status, nil)
	svc.Start()
	svc.Move(1)
	if _, _, err := svc.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := current(t, svc).Kind; got != domain.KindMovies {
		t.Fatalf("expected movies frame, got %s", got)
	}

	if err := svc.ResolveIndicators(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := current(t, svc).Entries[0].Indicator; got != domain.IndicatorWatched {
		t.Fatalf("expected watched, got %v", got)
	}
	if len(status.asked) != 0 {
		t.Fatalf("cache should not be consulted: %v", status.asked)
	}
}

func TestRefreshReplacesLeafEntries(t *testing.T) {
	t.Parallel()
	catalog := newCatalog()
	svc := service.NewBrowseService(catalog, &fakeStatus{}, nil)
	svc.Start()
	for i := 0; i < 3; i++ {
		if _, _, err := svc.Confirm(context.Background()); err != nil {
			t.Fatalf("confirm: %v", err)
		}
	}

	catalog.mu.Lock()
	catalog.episodes["s1"] = []domain.Item{{ID: "e1", Name: "Pilot", Type: "Episode", Index: 1, Played: true, HasUserData: true}}
	catalog.calls = nil
	catalog.mu.Unlock()

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	e := current(t, svc).Entries[0]
	if !e.Own.Watched || e.Resolved {
		t.Fatalf("expected fresh unresolved watched entry: %+v", e)
	}
	if len(catalog.calls) != 1 || catalog.calls[0] != "episodes:show-a/s1" {
		t.Fatalf("unexpected refetch: %v", catalog.calls)
	}
}
