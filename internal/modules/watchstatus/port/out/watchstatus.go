package out

import (
	"context"

	"playfin/internal/modules/watchstatus/domain"
)

// EpisodeSource returns every episode of a show in one call.
type EpisodeSource interface {
	ShowEpisodes(ctx context.Context, showID string) ([]domain.EpisodeStatus, error)
}
