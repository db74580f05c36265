package out

import (
	"context"

	"playfin/internal/modules/browse/domain"
	browseout "playfin/internal/modules/browse/port/out"
	watchin "playfin/internal/modules/watchstatus/port/in"
)

type WatchStatusAdapter struct {
	status watchin.Usecase
}

func NewWatchStatusAdapter(status watchin.Usecase) browseout.StatusSource {
	return &WatchStatusAdapter{status: status}
}

func (a *WatchStatusAdapter) ShowStatus(ctx context.Context, showID string) (domain.Status, error) {
	s, err := a.status.ShowStatus(ctx, showID)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.Status{Watched: s.Watched, Partial: s.Partial}, nil
}

func (a *WatchStatusAdapter) SeasonStatus(ctx context.Context, showID, seasonID string) (domain.Status, error) {
	s, err := a.status.SeasonStatus(ctx, showID, seasonID)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.Status{Watched: s.Watched, Partial: s.Partial}, nil
}
