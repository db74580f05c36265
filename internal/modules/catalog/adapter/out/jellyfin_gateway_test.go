package out_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogout "playfin/internal/modules/catalog/adapter/out"
	"playfin/internal/modules/catalog/domain"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/jellyfin"
)

func TestGatewayMapsItemsAndStatuses(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/Users/AuthenticateByName", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"AccessToken":"tok","User":{"Id":"u1"}}`))
	})
	mux.HandleFunc("/Shows/show-1/Episodes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("seasonId") != "season-1" {
			t.Errorf("missing season filter: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"Items":[
			{"Id":"e1","Name":"Pilot","Type":"Episode","SeriesId":"show-1","SeasonId":"season-1","IndexNumber":1,"RunTimeTicks":100,"UserData":{"PlaybackPositionTicks":40,"Played":false}},
			{"Id":"e2","Name":"Second","Type":"Episode","SeriesId":"show-1","SeasonId":"season-1","IndexNumber":2}
		]}`))
	})
	mux.HandleFunc("/Users/u1/Items/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	mux.HandleFunc("/Shows/broken/Seasons", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gw := catalogout.NewJellyfinGateway(jellyfin.New(srv.URL, jellyfin.Identity{Client: "playfin"}, time.Second))
	if _, err := gw.Authenticate(context.Background(), "a", "b"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	items, err := gw.ListEpisodes(context.Background(), "show-1", "season-1")
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(items))
	}
	first := items[0]
	if first.Type != domain.TypeEpisode || first.PositionTicks != 40 || !first.HasUserData || first.Index != 1 {
		t.Fatalf("unexpected first episode: %+v", first)
	}
	if items[1].HasUserData {
		t.Fatalf("second episode carried no user data")
	}

	if _, err := gw.GetItem(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := gw.ListSeasons(context.Background(), "broken"); !errors.Is(err, apperrors.ErrCatalog) {
		t.Fatalf("expected ErrCatalog, got %v", err)
	}
}
