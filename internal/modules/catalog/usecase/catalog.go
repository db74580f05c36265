package usecase

import (
	"context"

	"playfin/internal/modules/catalog/domain"
	"playfin/internal/modules/catalog/dto"
	catalogin "playfin/internal/modules/catalog/port/in"
	"playfin/internal/modules/catalog/service"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Authenticate(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	session, err := i.svc.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.SessionOutput{UserID: session.UserID}, nil
}

func (i *Interactor) ListItems(ctx context.Context, input dto.ListItemsInput) ([]dto.Item, error) {
	items, err := i.svc.ListItems(ctx, input.Type)
	if err != nil {
		return nil, err
	}
	return toDTOs(items), nil
}

func (i *Interactor) ListSeasons(ctx context.Context, showID string) ([]dto.Item, error) {
	items, err := i.svc.ListSeasons(ctx, showID)
	if err != nil {
		return nil, err
	}
	return toDTOs(items), nil
}

func (i *Interactor) ListEpisodes(ctx context.Context, input dto.ListEpisodesInput) ([]dto.Item, error) {
	items, err := i.svc.ListEpisodes(ctx, input.ShowID, input.SeasonID)
	if err != nil {
		return nil, err
	}
	return toDTOs(items), nil
}

func (i *Interactor) GetItemUserData(ctx context.Context, itemID string) (dto.UserData, error) {
	item, err := i.svc.GetItem(ctx, itemID)
	if err != nil {
		return dto.UserData{}, err
	}
	return dto.UserData{
		ItemID:        item.ID,
		Name:          item.Name,
		DurationTicks: item.DurationTicks,
		PositionTicks: item.PositionTicks,
		Played:        item.Played,
	}, nil
}

func (i *Interactor) StreamURL(itemID string) string {
	return i.svc.StreamURL(itemID)
}

func toDTOs(items []domain.Item) []dto.Item {
	out := make([]dto.Item, 0, len(items))
	for _, item := range items {
		out = append(out, dto.Item{
			ID:            item.ID,
			Name:          item.Name,
			Type:          string(item.Type),
			SeriesID:      item.SeriesID,
			SeasonID:      item.SeasonID,
			Index:         item.Index,
			DurationTicks: item.DurationTicks,
			PositionTicks: item.PositionTicks,
			Played:        item.Played,
			HasUserData:   item.HasUserData,
		})
	}
	return out
}
