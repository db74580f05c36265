package out_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	playbackout "playfin/internal/modules/playback/adapter/out"
	apperrors "playfin/internal/platform/errors"
)

type fakeRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// serveFakePlayer answers each request with the lines reply returns.
func serveFakePlayer(t *testing.T, socket string, reply func(req fakeRequest) []string) {
	t.Helper()
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				scanner := bufio.NewScanner(conn)
				for scanner.Scan() {
					var req fakeRequest
					if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
						return
					}
					for _, line := range reply(req) {
						if _, err := fmt.Fprintln(conn, line); err != nil {
							return
						}
					}
				}
			}(conn)
		}
	}()
}

func socketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "mpv.sock")
}

func TestPositionSkipsEventsAndForeignReplies(t *testing.T) {
	t.Parallel()
	socket := socketPath(t)
	serveFakePlayer(t, socket, func(req fakeRequest) []string {
		return []string{
			`{"event":"playback-restart"}`,
			fmt.Sprintf(`{"data":1.5,"error":"success","request_id":%d}`, req.RequestID+100),
			fmt.Sprintf(`{"data":42.25,"error":"success","request_id":%d}`, req.RequestID),
		}
	})

	conn, err := playbackout.Dial(context.Background(), socket, time.Second, time.Second, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	pos, ok := conn.Position(context.Background())
	if !ok || pos != 42.25 {
		t.Fatalf("position = %v, %v; want 42.25, true", pos, ok)
	}
}

func TestPlayingRequiresBooleanPayload(t *testing.T) {
	t.Parallel()
	socket := socketPath(t)
	payloads := []string{`"not-a-bool"`, `true`, `false`}
	calls := 0
	serveFakePlayer(t, socket, func(req fakeRequest) []string {
		data := payloads[calls%len(payloads)]
		calls++
		return []string{fmt.Sprintf(`{"data":%s,"error":"success","request_id":%d}`, data, req.RequestID)}
	})

	conn, err := playbackout.Dial(context.Background(), socket, time.Second, time.Second, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, ok := conn.Playing(context.Background()); ok {
		t.Fatalf("non-boolean pause must be absent")
	}
	if playing, ok := conn.Playing(context.Background()); !ok || playing {
		t.Fatalf("pause=true should mean not playing, got %v %v", playing, ok)
	}
	if playing, ok := conn.Playing(context.Background()); !ok || !playing {
		t.Fatalf("pause=false should mean playing, got %v %v", playing, ok)
	}
}

func TestSendReportsAbsenceOnErrorsAndGarbage(t *testing.T) {
	t.Parallel()
	socket := socketPath(t)
	serveFakePlayer(t, socket, func(req fakeRequest) []string {
		if req.Command[1] == "playback-time" {
			return []string{fmt.Sprintf(`{"data":null,"error":"property unavailable","request_id":%d}`, req.RequestID)}
		}
		return []string{`this is not json`}
	})

	conn, err := playbackout.Dial(context.Background(), socket, time.Second, time.Second, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, ok := conn.Position(context.Background()); ok {
		t.Fatalf("error reply must be absent")
	}
	if _, ok := conn.Playing(context.Background()); ok {
		t.Fatalf("garbage reply must be absent")
	}
}

func TestSendTimesOutOnSilentPlayer(t *testing.T) {
	t.Parallel()
	socket := socketPath(t)
	serveFakePlayer(t, socket, func(fakeRequest) []string { return nil })

	conn, err := playbackout.Dial(context.Background(), socket, time.Second, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	start := time.Now()
	if _, ok := conn.Position(context.Background()); ok {
		t.Fatalf("silent player must yield absence")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("send ignored its deadline: %v", elapsed)
	}
}

func TestDialWaitsForSocketToAppear(t *testing.T) {
	t.Parallel()
	socket := socketPath(t)
	go func() {
		time.Sleep(250 * time.Millisecond)
		serveFakePlayer(t, socket, func(req fakeRequest) []string {
			return []string{fmt.Sprintf(`{"data":1,"error":"success","request_id":%d}`, req.RequestID)}
		})
	}()

	conn, err := playbackout.Dial(context.Background(), socket, 3*time.Second, time.Second, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = conn.Close()
}

func TestDialTimesOutWhenSocketNeverAppears(t *testing.T) {
	t.Parallel()
	socket := socketPath(t)
	_, err := playbackout.Dial(context.Background(), socket, 300*time.Millisecond, time.Second, nil)
	if !errors.Is(err, apperrors.ErrConnectTimeout) {
		t.Fatalf("expected ErrConnectTimeout, got %v", err)
	}
}

func TestDialFailsFastOnNonRetryableError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// A path below a regular file fails with ENOTDIR.
	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	start := time.Now()
	_, err := playbackout.Dial(context.Background(), filepath.Join(plain, "mpv.sock"), 5*time.Second, time.Second, nil)
	if err == nil || errors.Is(err, apperrors.ErrConnectTimeout) {
		t.Fatalf("expected an immediate dial error, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("non-retryable error was retried")
	}
}
