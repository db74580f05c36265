package in

import (
	"context"

	"playfin/internal/modules/catalog/dto"
)

type Usecase interface {
	Authenticate(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	ListItems(ctx context.Context, input dto.ListItemsInput) ([]dto.Item, error)
	ListSeasons(ctx context.Context, showID string) ([]dto.Item, error)
	ListEpisodes(ctx context.Context, input dto.ListEpisodesInput) ([]dto.Item, error)
	GetItemUserData(ctx context.Context, itemID string) (dto.UserData, error)
	StreamURL(itemID string) string
}
