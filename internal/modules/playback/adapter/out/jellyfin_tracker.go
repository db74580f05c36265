package out

import (
	"context"
	"fmt"

	"playfin/internal/modules/playback/domain"
	playbackout "playfin/internal/modules/playback/port/out"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/jellyfin"
)

const playMethod = "DirectStream"

type JellyfinTracker struct {
	client *jellyfin.Client
}

func NewJellyfinTracker(client *jellyfin.Client) playbackout.Tracker {
	return &JellyfinTracker{client: client}
}

type playbackInfo struct {
	ItemID        string `json:"ItemId"`
	MediaSourceID string `json:"MediaSourceId"`
	PlaySessionID string `json:"PlaySessionId,omitempty"`
	PositionTicks int64  `json:"PositionTicks"`
	IsPaused      bool   `json:"IsPaused"`
	CanSeek       bool   `json:"CanSeek"`
	IsMuted       bool   `json:"IsMuted"`
	PlayMethod    string `json:"PlayMethod"`
	EventName     string `json:"EventName,omitempty"`
}

func newPlaybackInfo(r domain.Report) playbackInfo {
	return playbackInfo{
		ItemID:        r.ItemID,
		MediaSourceID: r.ItemID,
		PlaySessionID: r.PlaySessionID,
		PositionTicks: r.PositionTicks,
		IsPaused:      r.Paused,
		CanSeek:       true,
		PlayMethod:    playMethod,
	}
}

func (t *JellyfinTracker) ReportSessionStart(ctx context.Context, r domain.Report) error {
	return t.post(ctx, "/Sessions/Playing", newPlaybackInfo(r))
}

func (t *JellyfinTracker) ReportProgress(ctx context.Context, r domain.Report) error {
	body := newPlaybackInfo(r)
	body.EventName = "TimeUpdate"
	return t.post(ctx, "/Sessions/Playing/Progress", body)
}

func (t *JellyfinTracker) ReportSessionStopped(ctx context.Context, r domain.Report) error {
	body := newPlaybackInfo(r)
	body.IsPaused = false
	return t.post(ctx, "/Sessions/Playing/Stopped", body)
}

func (t *JellyfinTracker) post(ctx context.Context, path string, body playbackInfo) error {
	if err := t.client.PostJSON(ctx, path, body); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrRemoteReport, err)
	}
	return nil
}
