package domain_test

import (
	"errors"
	"testing"

	"playfin/internal/modules/catalog/domain"
	apperrors "playfin/internal/platform/errors"
)

func TestParseListFilter(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.ItemType{"Series": domain.TypeSeries, " shows ": domain.TypeSeries, "MOVIES": domain.TypeMovie}
	for raw, want := range cases {
		got, err := domain.ParseListFilter(raw)
		if err != nil || got != want {
			t.Fatalf("ParseListFilter(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := domain.ParseListFilter("music"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if domain.TypeSeason.Playable() || !domain.TypeEpisode.Playable() {
		t.Fatalf("unexpected playable classification")
	}
}
