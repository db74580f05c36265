package domain

import (
	"fmt"
	"strings"

	apperrors "playfin/internal/platform/errors"
)

type ItemType string

const (
	TypeSeries  ItemType = "Series"
	TypeSeason  ItemType = "Season"
	TypeEpisode ItemType = "Episode"
	TypeMovie   ItemType = "Movie"
)

// ParseListFilter accepts the top-level filters the catalog can be listed by.
func ParseListFilter(raw string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "series", "show", "shows", "tv":
		return TypeSeries, nil
	case "movie", "movies":
		return TypeMovie, nil
	default:
		return "", fmt.Errorf("%w: unknown item filter %q", apperrors.ErrInvalidInput, raw)
	}
}

// Playable reports whether the item can be handed to a playback session.
func (t ItemType) Playable() bool {
	return t == TypeEpisode || t == TypeMovie
}

type Item struct {
	ID       string
	Name     string
	Type     ItemType
	SeriesID string
	SeasonID string
	Index    int

	DurationTicks int64
	PositionTicks int64
	Played        bool
	// HasUserData is false when the server sent no per-user playback block.
	HasUserData bool
}

type Session struct {
	Token  string
	UserID string
}
