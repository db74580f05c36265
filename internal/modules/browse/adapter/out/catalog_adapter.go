package out

import (
	"context"

	"playfin/internal/modules/browse/domain"
	browseout "playfin/internal/modules/browse/port/out"
	catalogdto "playfin/internal/modules/catalog/dto"
	catalogin "playfin/internal/modules/catalog/port/in"
)

type CatalogAdapter struct {
	catalog catalogin.Usecase
}

func NewCatalogAdapter(catalog catalogin.Usecase) browseout.Catalog {
	return &CatalogAdapter{catalog: catalog}
}

func (a *CatalogAdapter) ListItems(ctx context.Context, itemType string) ([]domain.Item, error) {
	items, err := a.catalog.ListItems(ctx, catalogdto.ListItemsInput{Type: itemType})
	if err != nil {
		return nil, err
	}
	return toItems(items), nil
}

func (a *CatalogAdapter) ListSeasons(ctx context.Context, showID string) ([]domain.Item, error) {
	items, err := a.catalog.ListSeasons(ctx, showID)
	if err != nil {
		return nil, err
	}
	return toItems(items), nil
}

func (a *CatalogAdapter) ListEpisodes(ctx context.Context, showID, seasonID string) ([]domain.Item, error) {
	items, err := a.catalog.ListEpisodes(ctx, catalogdto.ListEpisodesInput{ShowID: showID, SeasonID: seasonID})
	if err != nil {
		return nil, err
	}
	return toItems(items), nil
}

func toItems(items []catalogdto.Item) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Item{
			ID:            item.ID,
			Name:          item.Name,
			Type:          item.Type,
			SeriesID:      item.SeriesID,
			Index:         item.Index,
			Played:        item.Played,
			PositionTicks: item.PositionTicks,
			HasUserData:   item.HasUserData,
		})
	}
	return out
}
