package out

import (
	"context"
	"io"
	"time"

	"playfin/internal/modules/playback/domain"
)

// ItemSource resolves the snapshot and stream location for one item.
type ItemSource interface {
	Item(ctx context.Context, itemID string) (domain.Item, error)
	StreamURL(itemID string) string
}

type LaunchRequest struct {
	URL          string
	SocketPath   string
	StartSeconds int64

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type Launcher interface {
	Launch(ctx context.Context, req LaunchRequest) (PlayerHandle, error)
}

// PlayerHandle owns the player process and its socket path.
type PlayerHandle interface {
	SocketPath() string
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	Wait() error
	Kill() error
	// Close kills the process if needed, reaps it and unlinks the socket.
	Close() error
}

type Connector interface {
	Connect(ctx context.Context, endpoint string, timeout time.Duration) (PlayerConn, error)
}

// PlayerConn answers queries against a running player. A false second
// return means the value is currently unknown.
type PlayerConn interface {
	Position(ctx context.Context) (float64, bool)
	Playing(ctx context.Context) (bool, bool)
	Close() error
}

type Tracker interface {
	ReportSessionStart(ctx context.Context, report domain.Report) error
	ReportProgress(ctx context.Context, report domain.Report) error
	ReportSessionStopped(ctx context.Context, report domain.Report) error
}

type Journal interface {
	Append(ctx context.Context, record domain.Record) error
	Recent(ctx context.Context, limit int) ([]domain.Record, error)
}
