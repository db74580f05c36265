package in

import (
	"context"

	"playfin/internal/modules/browse/dto"
	browsein "playfin/internal/modules/browse/port/in"
)

// TUIHandler is the browse surface the terminal UI drives.
type TUIHandler struct {
	usecase browsein.Usecase
}

func NewTUIHandler(usecase browsein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context) (dto.View, error) { return h.usecase.Start(ctx) }
func (h TUIHandler) View() dto.View                             { return h.usecase.View() }
func (h TUIHandler) Move(delta int) dto.MoveOutput              { return h.usecase.Move(delta) }
func (h TUIHandler) Escape() (dto.View, bool)                   { return h.usecase.Escape() }
func (h TUIHandler) Cancel() dto.View                           { return h.usecase.Cancel() }
func (h TUIHandler) SetFilter(query string) dto.View            { return h.usecase.SetFilter(query) }

func (h TUIHandler) Confirm(ctx context.Context) (dto.ConfirmOutput, error) {
	return h.usecase.Confirm(ctx)
}

func (h TUIHandler) ResolveIndicators(ctx context.Context) (dto.View, error) {
	return h.usecase.ResolveIndicators(ctx)
}

func (h TUIHandler) Refresh(ctx context.Context) (dto.View, error) {
	return h.usecase.Refresh(ctx)
}
