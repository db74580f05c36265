package usecase_test

import (
	"context"
	"errors"
	"testing"

	"playfin/internal/modules/catalog/domain"
	"playfin/internal/modules/catalog/dto"
	"playfin/internal/modules/catalog/service"
	"playfin/internal/modules/catalog/usecase"
	apperrors "playfin/internal/platform/errors"
)

type fakeGateway struct {
	listed    domain.ItemType
	seasonArg string
	items     []domain.Item
	item      domain.Item
	err       error
}

func (g *fakeGateway) Authenticate(_ context.Context, username, _ string) (domain.Session, error) {
	return domain.Session{Token: "t", UserID: "u-" + username}, g.err
}

func (g *fakeGateway) ListItems(_ context.Context, itemType domain.ItemType) ([]domain.Item, error) {
	g.listed = itemType
	return g.items, g.err
}

func (g *fakeGateway) ListSeasons(context.Context, string) ([]domain.Item, error) {
	return g.items, g.err
}

func (g *fakeGateway) ListEpisodes(_ context.Context, _, seasonID string) ([]domain.Item, error) {
	g.seasonArg = seasonID
	return g.items, g.err
}

func (g *fakeGateway) GetItem(context.Context, string) (domain.Item, error) {
	return g.item, g.err
}

func (g *fakeGateway) StreamURL(itemID string) string { return "http://media/" + itemID }

func TestListItemsParsesFilterAndMapsFields(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{items: []domain.Item{{ID: "m1", Name: "Film", Type: domain.TypeMovie, Played: true, HasUserData: true}}}
	uc := usecase.NewInteractor(service.NewCatalogService(gw))

	items, err := uc.ListItems(context.Background(), dto.ListItemsInput{Type: "movies"})
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if gw.listed != domain.TypeMovie {
		t.Fatalf("expected Movie filter, got %q", gw.listed)
	}
	if len(items) != 1 || items[0].Type != "Movie" || !items[0].Played || !items[0].HasUserData {
		t.Fatalf("unexpected items: %+v", items)
	}
	if _, err := uc.ListItems(context.Background(), dto.ListItemsInput{Type: "books"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListEpisodesRequiresShowAndPassesSeason(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{}
	uc := usecase.NewInteractor(service.NewCatalogService(gw))

	if _, err := uc.ListEpisodes(context.Background(), dto.ListEpisodesInput{SeasonID: "s1"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.ListEpisodes(context.Background(), dto.ListEpisodesInput{ShowID: "show", SeasonID: " s1 "}); err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	if gw.seasonArg != "s1" {
		t.Fatalf("expected trimmed season id, got %q", gw.seasonArg)
	}
}

func TestGetItemUserDataAndErrors(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{item: domain.Item{ID: "e1", Name: "Pilot", DurationTicks: 600_000_000, PositionTicks: 120_000_000}}
	uc := usecase.NewInteractor(service.NewCatalogService(gw))

	data, err := uc.GetItemUserData(context.Background(), "e1")
	if err != nil {
		t.Fatalf("get user data: %v", err)
	}
	if data.DurationTicks != 600_000_000 || data.PositionTicks != 120_000_000 || data.Played {
		t.Fatalf("unexpected user data: %+v", data)
	}

	gw.err = apperrors.ErrCatalog
	if _, err := uc.GetItemUserData(context.Background(), "e1"); !errors.Is(err, apperrors.ErrCatalog) {
		t.Fatalf("expected ErrCatalog, got %v", err)
	}
	if _, err := uc.Authenticate(context.Background(), dto.LoginInput{Username: "alice"}); !errors.Is(err, apperrors.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}
