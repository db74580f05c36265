package out

import (
	"context"

	catalogin "playfin/internal/modules/catalog/port/in"
	"playfin/internal/modules/playback/domain"
	playbackout "playfin/internal/modules/playback/port/out"
)

type CatalogItemSource struct {
	catalog catalogin.Usecase
}

func NewCatalogItemSource(catalog catalogin.Usecase) playbackout.ItemSource {
	return &CatalogItemSource{catalog: catalog}
}

func (s *CatalogItemSource) Item(ctx context.Context, itemID string) (domain.Item, error) {
	data, err := s.catalog.GetItemUserData(ctx, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	return domain.Item{
		ID:            data.ItemID,
		Name:          data.Name,
		DurationTicks: data.DurationTicks,
		PositionTicks: data.PositionTicks,
		Played:        data.Played,
	}, nil
}

func (s *CatalogItemSource) StreamURL(itemID string) string {
	return s.catalog.StreamURL(itemID)
}
