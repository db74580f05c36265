package in

import (
	"context"

	"playfin/internal/modules/watchstatus/dto"
)

type Usecase interface {
	ShowStatus(ctx context.Context, showID string) (dto.Status, error)
	SeasonStatus(ctx context.Context, showID, seasonID string) (dto.Status, error)
	Report(ctx context.Context, showID string) (dto.ShowReport, error)
	Invalidate(showID string)
}
