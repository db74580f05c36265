package out

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"playfin/internal/modules/catalog/domain"
	catalogout "playfin/internal/modules/catalog/port/out"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/jellyfin"
)

type JellyfinGateway struct {
	client *jellyfin.Client
}

func NewJellyfinGateway(client *jellyfin.Client) catalogout.Gateway {
	return &JellyfinGateway{client: client}
}

func (g *JellyfinGateway) Authenticate(ctx context.Context, username, password string) (domain.Session, error) {
	session, err := g.client.Authenticate(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: session.Token, UserID: session.UserID}, nil
}

func (g *JellyfinGateway) ListItems(ctx context.Context, itemType domain.ItemType) ([]domain.Item, error) {
	q := url.Values{}
	q.Set("IncludeItemTypes", string(itemType))
	q.Set("Recursive", "true")
	q.Set("SortBy", "SortName")
	q.Set("Fields", "UserData")
	return g.items(ctx, "/Users/{user}/Items", q)
}

func (g *JellyfinGateway) ListSeasons(ctx context.Context, showID string) ([]domain.Item, error) {
	q := url.Values{}
	q.Set("UserId", g.client.Session().UserID)
	return g.items(ctx, "/Shows/"+url.PathEscape(showID)+"/Seasons", q)
}

func (g *JellyfinGateway) ListEpisodes(ctx context.Context, showID, seasonID string) ([]domain.Item, error) {
	q := url.Values{}
	q.Set("UserId", g.client.Session().UserID)
	if seasonID != "" {
		q.Set("seasonId", seasonID)
	}
	return g.items(ctx, "/Shows/"+url.PathEscape(showID)+"/Episodes", q)
}

func (g *JellyfinGateway) GetItem(ctx context.Context, itemID string) (domain.Item, error) {
	item, err := g.client.UserItem(ctx, itemID)
	if err != nil {
		return domain.Item{}, classify(err)
	}
	return toDomain(item), nil
}

func (g *JellyfinGateway) StreamURL(itemID string) string {
	return g.client.StreamURL(itemID)
}

func (g *JellyfinGateway) items(ctx context.Context, path string, q url.Values) ([]domain.Item, error) {
	raw, err := g.client.Items(ctx, path, q)
	if err != nil {
		return nil, classify(err)
	}
	items := make([]domain.Item, 0, len(raw))
	for _, item := range raw {
		items = append(items, toDomain(item))
	}
	return items, nil
}

func classify(err error) error {
	var status *jellyfin.StatusError
	switch {
	case errors.Is(err, apperrors.ErrMissingCredentials):
		return err
	case errors.As(err, &status) && status.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", apperrors.ErrNotFound, err)
	case errors.As(err, &status) && status.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", apperrors.ErrAuthenticationFailed, err)
	default:
		return fmt.Errorf("%w: %w", apperrors.ErrCatalog, err)
	}
}

func toDomain(item jellyfin.Item) domain.Item {
	out := domain.Item{
		ID:            item.ID,
		Name:          item.Name,
		Type:          domain.ItemType(item.Type),
		SeriesID:      item.SeriesID,
		SeasonID:      item.SeasonID,
		Index:         item.IndexNumber,
		DurationTicks: item.RunTimeTicks,
	}
	if item.UserData != nil {
		out.HasUserData = true
		out.Played = item.UserData.Played
		out.PositionTicks = item.UserData.PlaybackPositionTicks
	}
	return out
}
