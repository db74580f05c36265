package in

import (
	"context"

	"playfin/internal/modules/browse/dto"
)

type Usecase interface {
	Start(ctx context.Context) (dto.View, error)
	View() dto.View
	Move(delta int) dto.MoveOutput
	Confirm(ctx context.Context) (dto.ConfirmOutput, error)
	Escape() (dto.View, bool)
	Cancel() dto.View
	SetFilter(query string) dto.View
	ResolveIndicators(ctx context.Context) (dto.View, error)
	Refresh(ctx context.Context) (dto.View, error)
}
