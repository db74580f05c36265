package usecase

import (
	"context"

	"playfin/internal/modules/watchstatus/domain"
	"playfin/internal/modules/watchstatus/dto"
	watchin "playfin/internal/modules/watchstatus/port/in"
	"playfin/internal/modules/watchstatus/service"
)

type Interactor struct {
	cache *service.Cache
}

func NewInteractor(cache *service.Cache) watchin.Usecase {
	return &Interactor{cache: cache}
}

func (i *Interactor) ShowStatus(ctx context.Context, showID string) (dto.Status, error) {
	status, err := i.cache.ShowStatus(ctx, showID)
	if err != nil {
		return dto.Status{}, err
	}
	return toDTO(status.Show), nil
}

func (i *Interactor) SeasonStatus(ctx context.Context, showID, seasonID string) (dto.Status, error) {
	status, err := i.cache.SeasonStatus(ctx, showID, seasonID)
	if err != nil {
		return dto.Status{}, err
	}
	return toDTO(status), nil
}

func (i *Interactor) Report(ctx context.Context, showID string) (dto.ShowReport, error) {
	status, err := i.cache.ShowStatus(ctx, showID)
	if err != nil {
		return dto.ShowReport{}, err
	}
	report := dto.ShowReport{ShowID: showID, Show: toDTO(status.Show), Seasons: make(map[string]dto.Status, len(status.Seasons))}
	for id, season := range status.Seasons {
		report.Seasons[id] = toDTO(season)
	}
	return report, nil
}

func (i *Interactor) Invalidate(showID string) {
	i.cache.Invalidate(showID)
}

func toDTO(s domain.AggregateStatus) dto.Status {
	return dto.Status{Watched: s.Watched, Partial: s.Partial}
}
