package in

import (
	"context"

	"playfin/internal/modules/catalog/dto"
	catalogin "playfin/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (dto.SessionOutput, error) {
	return h.usecase.Authenticate(ctx, dto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Item(ctx context.Context, itemID string) (dto.UserData, error) {
	return h.usecase.GetItemUserData(ctx, itemID)
}
