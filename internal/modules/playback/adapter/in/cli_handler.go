package in

import (
	"context"
	"os"

	"playfin/internal/modules/playback/dto"
	playbackin "playfin/internal/modules/playback/port/in"
)

type CLIHandler struct {
	usecase playbackin.Usecase
}

func NewCLIHandler(usecase playbackin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Play runs the player attached to the process's terminal.
func (h CLIHandler) Play(ctx context.Context, itemID string) (dto.PlayOutput, error) {
	return h.usecase.Play(ctx, dto.PlayInput{ItemID: itemID, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.HistoryEntry, error) {
	return h.usecase.History(ctx, dto.HistoryInput{Limit: limit})
}

func (h CLIHandler) Abort() error {
	return h.usecase.Abort()
}
