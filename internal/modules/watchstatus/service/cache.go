package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"

	"playfin/internal/modules/watchstatus/domain"
	watchout "playfin/internal/modules/watchstatus/port/out"
	apperrors "playfin/internal/platform/errors"
)

// DefaultFetchTimeout bounds one episode fetch. The fetch is shared by every
// caller waiting on the show, so it does not end with any one caller's context.
const DefaultFetchTimeout = 30 * time.Second

// Cache holds show rollups for the lifetime of the process. An entry is
// fetched once and then served unchanged: episodes watched during this run
// are not reflected until Invalidate is called for the show. Nothing in the
// browse flow calls Invalidate.
type Cache struct {
	source watchout.EpisodeSource
	log    hclog.Logger

	mu      sync.RWMutex
	entries map[string]domain.ShowStatus
	// gens is bumped by Invalidate; a fetch started under an older
	// generation does not store its result.
	gens   map[string]uint64
	flight singleflight.Group

	fetchTimeout time.Duration
}

func NewCache(source watchout.EpisodeSource, log hclog.Logger) *Cache {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Cache{
		source:  source,
		log:     log.Named("watchstatus"),
		entries: map[string]domain.ShowStatus{},
		gens:    map[string]uint64{},

		fetchTimeout: DefaultFetchTimeout,
	}
}

func (c *Cache) ShowStatus(ctx context.Context, showID string) (domain.ShowStatus, error) {
	if strings.TrimSpace(showID) == "" {
		return domain.ShowStatus{}, fmt.Errorf("%w: show id is required", apperrors.ErrInvalidInput)
	}
	if status, ok := c.lookup(showID); ok {
		return status, nil
	}

	// Concurrent misses for one show share a single fetch.
	ch := c.flight.DoChan(showID, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), showID)
	})
	select {
	case <-ctx.Done():
		return domain.ShowStatus{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.ShowStatus{}, fmt.Errorf("fetch episodes for show %s: %w", showID, res.Err)
		}
		if res.Shared {
			c.log.Trace("joined in-flight fetch", "show", showID)
		}
		return res.Val.(domain.ShowStatus), nil
	}
}

func (c *Cache) fetch(ctx context.Context, showID string) (domain.ShowStatus, error) {
	c.mu.RLock()
	status, ok := c.entries[showID]
	gen := c.gens[showID]
	c.mu.RUnlock()
	if ok {
		return status, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	episodes, err := c.source.ShowEpisodes(ctx, showID)
	if err != nil {
		return domain.ShowStatus{}, err
	}
	status = domain.Aggregate(episodes)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[showID] != gen {
		c.log.Debug("dropped show status invalidated during fetch", "show", showID)
		return status, nil
	}
	c.entries[showID] = status
	c.log.Debug("cached show status", "show", showID, "episodes", len(episodes), "seasons", len(status.Seasons))
	return status, nil
}

func (c *Cache) SeasonStatus(ctx context.Context, showID, seasonID string) (domain.AggregateStatus, error) {
	status, err := c.ShowStatus(ctx, showID)
	if err != nil {
		return domain.AggregateStatus{}, err
	}
	return status.Season(seasonID), nil
}

func (c *Cache) Invalidate(showID string) {
	c.mu.Lock()
	delete(c.entries, showID)
	c.gens[showID]++
	c.mu.Unlock()
	c.flight.Forget(showID)
}

func (c *Cache) lookup(showID string) (domain.ShowStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	status, ok := c.entries[showID]
	return status, ok
}
