package in

import (
	"context"
	"io"

	"playfin/internal/modules/playback/dto"
	playbackin "playfin/internal/modules/playback/port/in"
)

type TUIHandler struct {
	usecase playbackin.Usecase
}

func NewTUIHandler(usecase playbackin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

// Play runs the player on the streams the TUI released for it.
func (h TUIHandler) Play(ctx context.Context, itemID string, stdin io.Reader, stdout, stderr io.Writer) (dto.PlayOutput, error) {
	return h.usecase.Play(ctx, dto.PlayInput{ItemID: itemID, Stdin: stdin, Stdout: stdout, Stderr: stderr})
}

func (h TUIHandler) Abort() error {
	return h.usecase.Abort()
}
