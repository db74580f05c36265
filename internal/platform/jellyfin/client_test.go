package jellyfin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/jellyfin"
)

var identity = jellyfin.Identity{Client: "playfin", Device: "test", DeviceID: "dev-1", Version: "0.1"}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/Users/AuthenticateByName", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), `MediaBrowser Client="playfin"`) {
			t.Errorf("missing MediaBrowser header: %q", r.Header.Get("Authorization"))
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["Username"] != "alice" || body["Pw"] != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"AccessToken":"tok-1","User":{"Id":"u-1"}}`))
	})
	mux.HandleFunc("/Users/u-1/Items", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Emby-Token") != "tok-1" {
			http.Error(w, "no token", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("IncludeItemTypes") != "Series" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"Items":[{"Id":"s1","Name":"Show","Type":"Series","UserData":{"Played":true}}]}`))
	})
	mux.HandleFunc("/Sessions/Playing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "server exploded", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthenticateAndListItems(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	client := jellyfin.New(srv.URL+"/", identity, time.Second)

	session, err := client.Authenticate(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if session.Token != "tok-1" || session.UserID != "u-1" {
		t.Fatalf("unexpected session: %+v", session)
	}

	items, err := client.Items(context.Background(), "/Users/{user}/Items", map[string][]string{
		"IncludeItemTypes": {"Series"},
		"Recursive":        {"true"},
	})
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 || items[0].ID != "s1" || items[0].UserData == nil || !items[0].UserData.Played {
		t.Fatalf("unexpected items: %+v", items)
	}
	if got := client.StreamURL("s1"); got != srv.URL+"/Items/s1/Download?api_key=tok-1" {
		t.Fatalf("unexpected stream url: %s", got)
	}
}

func TestAuthenticateRejectedMapsToAuthenticationFailed(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	client := jellyfin.New(srv.URL, identity, time.Second)

	_, err := client.Authenticate(context.Background(), "alice", "wrong")
	if !errors.Is(err, apperrors.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	var status *jellyfin.StatusError
	if !errors.As(err, &status) || status.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}

func TestNon2xxCarriesStatusAndSnippet(t *testing.T) {
	t.Parallel()
	srv := newServer(t)
	client := jellyfin.New(srv.URL, identity, time.Second)
	if _, err := client.Authenticate(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	err := client.PostJSON(context.Background(), "/Sessions/Playing", map[string]any{"ItemId": "e1"})
	var status *jellyfin.StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected status error, got %v", err)
	}
	if status.Code != http.StatusInternalServerError || !strings.Contains(status.Body, "server exploded") {
		t.Fatalf("unexpected status error: %+v", status)
	}
}

func TestCallsRequireSession(t *testing.T) {
	t.Parallel()
	client := jellyfin.New("http://127.0.0.1:1", identity, time.Second)
	if _, err := client.UserItem(context.Background(), "x"); !errors.Is(err, apperrors.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}
