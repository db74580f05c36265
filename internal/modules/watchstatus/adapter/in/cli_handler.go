package in

import (
	"context"

	"playfin/internal/modules/watchstatus/dto"
	watchin "playfin/internal/modules/watchstatus/port/in"
)

type CLIHandler struct {
	usecase watchin.Usecase
}

func NewCLIHandler(usecase watchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, showID string) (dto.ShowReport, error) {
	return h.usecase.Report(ctx, showID)
}

func (h CLIHandler) Season(ctx context.Context, showID, seasonID string) (dto.Status, error) {
	return h.usecase.SeasonStatus(ctx, showID, seasonID)
}
