package out

import (
	"context"

	catalogdto "playfin/internal/modules/catalog/dto"
	catalogin "playfin/internal/modules/catalog/port/in"
	"playfin/internal/modules/watchstatus/domain"
	watchout "playfin/internal/modules/watchstatus/port/out"
)

type CatalogEpisodeSource struct {
	catalog catalogin.Usecase
}

func NewCatalogEpisodeSource(catalog catalogin.Usecase) watchout.EpisodeSource {
	return &CatalogEpisodeSource{catalog: catalog}
}

func (s *CatalogEpisodeSource) ShowEpisodes(ctx context.Context, showID string) ([]domain.EpisodeStatus, error) {
	episodes, err := s.catalog.ListEpisodes(ctx, catalogdto.ListEpisodesInput{ShowID: showID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.EpisodeStatus, 0, len(episodes))
	for _, e := range episodes {
		out = append(out, domain.EpisodeStatus{
			SeasonID:      e.SeasonID,
			Played:        e.Played,
			PositionTicks: e.PositionTicks,
		})
	}
	return out, nil
}
