package out

import (
	"context"

	"playfin/internal/modules/browse/domain"
)

type Catalog interface {
	ListItems(ctx context.Context, itemType string) ([]domain.Item, error)
	ListSeasons(ctx context.Context, showID string) ([]domain.Item, error)
	ListEpisodes(ctx context.Context, showID, seasonID string) ([]domain.Item, error)
}

// StatusSource serves aggregate watch status for shows and seasons.
type StatusSource interface {
	ShowStatus(ctx context.Context, showID string) (domain.Status, error)
	SeasonStatus(ctx context.Context, showID, seasonID string) (domain.Status, error)
}
