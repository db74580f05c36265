package out

import (
	"context"

	"playfin/internal/modules/catalog/domain"
)

type Gateway interface {
	Authenticate(ctx context.Context, username, password string) (domain.Session, error)
	ListItems(ctx context.Context, itemType domain.ItemType) ([]domain.Item, error)
	ListSeasons(ctx context.Context, showID string) ([]domain.Item, error)
	// ListEpisodes returns every episode of the show when seasonID is empty.
	ListEpisodes(ctx context.Context, showID, seasonID string) ([]domain.Item, error)
	GetItem(ctx context.Context, itemID string) (domain.Item, error)
	StreamURL(itemID string) string
}
