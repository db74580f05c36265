package out

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	playbackout "playfin/internal/modules/playback/port/out"
	apperrors "playfin/internal/platform/errors"
)

const (
	connectPollInterval = 100 * time.Millisecond
	defaultIPCTimeout   = 2 * time.Second
)

type MPVConnector struct {
	timeout time.Duration
	log     hclog.Logger
}

// NewMPVConnector returns a connector whose connections bound every command
// by ipcTimeout.
func NewMPVConnector(ipcTimeout time.Duration, log hclog.Logger) playbackout.Connector {
	if ipcTimeout <= 0 {
		ipcTimeout = defaultIPCTimeout
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &MPVConnector{timeout: ipcTimeout, log: log.Named("ipc")}
}

// Connect polls for the player's socket until it accepts or timeout elapses.
// Only a missing or refusing endpoint is retried.
func (c *MPVConnector) Connect(ctx context.Context, endpoint string, timeout time.Duration) (playbackout.PlayerConn, error) {
	return Dial(ctx, endpoint, timeout, c.timeout, c.log)
}

// Dial is Connect without the port indirection.
func Dial(ctx context.Context, endpoint string, timeout, ipcTimeout time.Duration, log hclog.Logger) (*MPVConn, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	deadline := time.Now().Add(timeout)
	var dialer net.Dialer
	for attempt := 1; ; attempt++ {
		conn, err := dialer.DialContext(ctx, "unix", endpoint)
		if err == nil {
			log.Debug("connected to player", "socket", endpoint, "attempts", attempt)
			return newMPVConn(conn, ipcTimeout, log), nil
		}
		if !retryable(err) {
			return nil, fmt.Errorf("dial player socket: %w", err)
		}
		if !time.Now().Add(connectPollInterval).Before(deadline) {
			return nil, fmt.Errorf("%w after %s: %s", apperrors.ErrConnectTimeout, timeout, endpoint)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectPollInterval):
		}
	}
}

func retryable(err error) bool {
	return errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED)
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type ipcResponse struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID *int64          `json:"request_id"`
	Event     string          `json:"event"`
}

// MPVConn is a single-owner JSON IPC connection. Commands are serialized so a
// reply is always read by the command that asked for it.
type MPVConn struct {
	log     hclog.Logger
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int64
	closed bool
}

func newMPVConn(conn net.Conn, timeout time.Duration, log hclog.Logger) *MPVConn {
	if timeout <= 0 {
		timeout = defaultIPCTimeout
	}
	return &MPVConn{log: log, timeout: timeout, conn: conn, reader: bufio.NewReader(conn)}
}

// Send issues one command and returns its data payload. Any write, read or
// decode failure, or a non-success reply, yields ok=false.
func (c *MPVConn) Send(ctx context.Context, command ...any) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false
	}

	c.nextID++
	id := c.nextID
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.unavailable(command, err)
		return nil, false
	}

	payload, err := json.Marshal(ipcRequest{Command: command, RequestID: id})
	if err != nil {
		c.unavailable(command, err)
		return nil, false
	}
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		c.unavailable(command, err)
		return nil, false
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			c.unavailable(command, err)
			return nil, false
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			c.unavailable(command, err)
			return nil, false
		}
		if resp.Event != "" {
			continue
		}
		// Late replies to commands that already timed out.
		if resp.RequestID != nil && *resp.RequestID != id {
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			c.unavailable(command, errors.New(resp.Error))
			return nil, false
		}
		return resp.Data, true
	}
}

func (c *MPVConn) unavailable(command []any, err error) {
	c.log.Debug("ipc command failed", "command", command, "error", fmt.Errorf("%w: %w", apperrors.ErrIPCUnavailable, err))
}

// Position is the current playback-time in seconds.
func (c *MPVConn) Position(ctx context.Context) (float64, bool) {
	data, ok := c.Send(ctx, "get_property", "playback-time")
	if !ok {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, false
	}
	pos, ok := v.(float64)
	return pos, ok
}

// Playing is the negation of the pause property.
func (c *MPVConn) Playing(ctx context.Context) (bool, bool) {
	data, ok := c.Send(ctx, "get_property", "pause")
	if !ok {
		return false, false
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false, false
	}
	paused, ok := v.(bool)
	if !ok {
		return false, false
	}
	return !paused, true
}

func (c *MPVConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
