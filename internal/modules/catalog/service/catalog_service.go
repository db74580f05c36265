package service

import (
	"context"
	"fmt"
	"strings"

	"playfin/internal/modules/catalog/domain"
	catalogout "playfin/internal/modules/catalog/port/out"
	apperrors "playfin/internal/platform/errors"
)

type CatalogService struct {
	gateway catalogout.Gateway
}

func NewCatalogService(gateway catalogout.Gateway) *CatalogService {
	return &CatalogService{gateway: gateway}
}

func (s *CatalogService) Authenticate(ctx context.Context, username, password string) (domain.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: username and password are required", apperrors.ErrMissingCredentials)
	}
	return s.gateway.Authenticate(ctx, username, password)
}

func (s *CatalogService) ListItems(ctx context.Context, filter string) ([]domain.Item, error) {
	itemType, err := domain.ParseListFilter(filter)
	if err != nil {
		return nil, err
	}
	items, err := s.gateway.ListItems(ctx, itemType)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", strings.ToLower(string(itemType)), err)
	}
	return items, nil
}

func (s *CatalogService) ListSeasons(ctx context.Context, showID string) ([]domain.Item, error) {
	if err := requireID("show id", showID); err != nil {
		return nil, err
	}
	items, err := s.gateway.ListSeasons(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return items, nil
}

func (s *CatalogService) ListEpisodes(ctx context.Context, showID, seasonID string) ([]domain.Item, error) {
	if err := requireID("show id", showID); err != nil {
		return nil, err
	}
	items, err := s.gateway.ListEpisodes(ctx, showID, strings.TrimSpace(seasonID))
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	return items, nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID string) (domain.Item, error) {
	if err := requireID("item id", itemID); err != nil {
		return domain.Item{}, err
	}
	item, err := s.gateway.GetItem(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item %s: %w", itemID, err)
	}
	return item, nil
}

func (s *CatalogService) StreamURL(itemID string) string {
	return s.gateway.StreamURL(itemID)
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", apperrors.ErrInvalidInput, name)
	}
	return nil
}
