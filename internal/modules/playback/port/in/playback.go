package in

import (
	"context"

	"playfin/internal/modules/playback/dto"
)

type Usecase interface {
	Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error)
	// Abort kills the active player without any network I/O.
	Abort() error
	History(ctx context.Context, input dto.HistoryInput) ([]dto.HistoryEntry, error)
}
