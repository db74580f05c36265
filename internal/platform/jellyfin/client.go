// Package jellyfin is the HTTP transport shared by the catalog, watch-status
// and playback adapters. It owns the authenticated session; callers never see
// the token except through StreamURL.
package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "playfin/internal/platform/errors"
)

const snippetLimit = 256

// Identity is advertised in the MediaBrowser authorization header.
type Identity struct {
	Client   string
	Device   string
	DeviceID string
	Version  string
}

type Session struct {
	Token  string
	UserID string
}

type UserData struct {
	PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
	Played                bool  `json:"Played"`
}

// Item is the subset of BaseItemDto the core consumes.
type Item struct {
	ID                string    `json:"Id"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	SeriesID          string    `json:"SeriesId,omitempty"`
	SeasonID          string    `json:"SeasonId,omitempty"`
	IndexNumber       int       `json:"IndexNumber,omitempty"`
	ParentIndexNumber int       `json:"ParentIndexNumber,omitempty"`
	RunTimeTicks      int64     `json:"RunTimeTicks,omitempty"`
	UserData          *UserData `json:"UserData,omitempty"`
}

type itemsEnvelope struct {
	Items []Item `json:"Items"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

type Client struct {
	baseURL  string
	identity Identity
	http     *http.Client

	mu      sync.RWMutex
	session Session
}

func New(baseURL string, identity Identity, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: identity,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

func (c *Client) authHeader() string {
	return fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
		c.identity.Client, c.identity.Device, c.identity.DeviceID, c.identity.Version)
}

// Authenticate exchanges credentials for a token and keeps the session for
// subsequent calls.
func (c *Client) Authenticate(ctx context.Context, username, password string) (Session, error) {
	body := map[string]string{"Username": username, "Pw": password}
	var resp struct {
		AccessToken string `json:"AccessToken"`
		User        struct {
			ID string `json:"Id"`
		} `json:"User"`
	}
	if err := c.do(ctx, http.MethodPost, "/Users/AuthenticateByName", nil, body, &resp); err != nil {
		return Session{}, fmt.Errorf("%w: %w", apperrors.ErrAuthenticationFailed, err)
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return Session{}, fmt.Errorf("%w: response carried no token", apperrors.ErrAuthenticationFailed)
	}
	session := Session{Token: resp.AccessToken, UserID: resp.User.ID}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return session, nil
}

func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) requireSession() (Session, error) {
	s := c.Session()
	if s.Token == "" {
		return Session{}, fmt.Errorf("%w: not authenticated", apperrors.ErrMissingCredentials)
	}
	return s, nil
}

// Items lists items from an endpoint returning an {"Items": [...]} envelope.
// The path may contain a "{user}" placeholder for the session's user id.
func (c *Client) Items(ctx context.Context, path string, query url.Values) ([]Item, error) {
	var env itemsEnvelope
	if err := c.GetJSON(ctx, path, query, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// UserItem fetches a single item with the session user's playback data.
func (c *Client) UserItem(ctx context.Context, itemID string) (Item, error) {
	var item Item
	if err := c.GetJSON(ctx, "/Users/{user}/Items/"+url.PathEscape(itemID), nil, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	s, err := c.requireSession()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodGet, expand(path, s), query, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, body any) error {
	s, err := c.requireSession()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, expand(path, s), nil, body, nil)
}

// StreamURL is the direct download URL handed to the player. The token rides
// in the query because the player cannot set headers.
func (c *Client) StreamURL(itemID string) string {
	q := url.Values{}
	q.Set("api_key", c.Session().Token)
	return c.baseURL + "/Items/" + url.PathEscape(itemID) + "/Download?" + q.Encode()
}

func expand(path string, s Session) string {
	return strings.ReplaceAll(path, "{user}", url.PathEscape(s.UserID))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Session().Token; token != "" {
		req.Header.Set("X-Emby-Token", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
