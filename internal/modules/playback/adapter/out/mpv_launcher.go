package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	playbackout "playfin/internal/modules/playback/port/out"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/logging"
)

type PlayerOptions struct {
	Path       string
	Fullscreen bool
	ConfigDir  string
	SubLang    string
	AudioLang  string
	ExtraArgs  []string
}

type MPVLauncher struct {
	opts PlayerOptions
	log  hclog.Logger
}

func NewMPVLauncher(opts PlayerOptions, log hclog.Logger) playbackout.Launcher {
	if opts.Path == "" {
		opts.Path = "mpv"
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &MPVLauncher{opts: opts, log: log.Named("player")}
}

// Args builds the player command line for req.
func (o PlayerOptions) Args(req playbackout.LaunchRequest) []string {
	args := []string{
		req.URL,
		"--input-ipc-server=" + req.SocketPath,
		"--start=" + strconv.FormatInt(req.StartSeconds, 10),
	}
	if o.Fullscreen {
		args = append(args, "--fs")
	}
	if o.ConfigDir != "" {
		args = append(args, "--config-dir="+o.ConfigDir)
	}
	if o.SubLang != "" {
		args = append(args, "--slang="+o.SubLang)
	}
	if o.AudioLang != "" {
		args = append(args, "--alang="+o.AudioLang)
	}
	return append(args, o.ExtraArgs...)
}

func (l *MPVLauncher) Launch(_ context.Context, req playbackout.LaunchRequest) (playbackout.PlayerHandle, error) {
	bin, err := exec.LookPath(l.opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoPlayer, l.opts.Path)
	}
	if err := os.MkdirAll(filepath.Dir(req.SocketPath), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Remove(req.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale player socket: %w", err)
	}

	args := l.opts.Args(req)
	// The process outlives the request context; the handle owns its lifetime.
	cmd := exec.Command(bin, args...)
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start player: %w", err)
	}
	l.log.Info("player started", "pid", cmd.Process.Pid, "socket", req.SocketPath, "start", req.StartSeconds, "url", logging.Redact(req.URL))

	h := &processHandle{cmd: cmd, socket: req.SocketPath, done: make(chan struct{}), log: l.log}
	go h.reap()
	return h, nil
}

type processHandle struct {
	cmd    *exec.Cmd
	socket string
	log    hclog.Logger

	done    chan struct{}
	waitErr error

	closeOnce sync.Once
	closeErr  error
}

func (h *processHandle) reap() {
	h.waitErr = h.cmd.Wait()
	h.log.Debug("player exited", "pid", h.cmd.Process.Pid, "error", h.waitErr)
	close(h.done)
}

func (h *processHandle) SocketPath() string    { return h.socket }
func (h *processHandle) Done() <-chan struct{} { return h.done }

func (h *processHandle) Wait() error {
	<-h.done
	return h.waitErr
}

func (h *processHandle) Kill() error {
	select {
	case <-h.done:
		return nil
	default:
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill player: %w", err)
	}
	return nil
}

func (h *processHandle) Close() error {
	h.closeOnce.Do(func() {
		if err := h.Kill(); err != nil {
			h.closeErr = err
		}
		<-h.done
		if err := os.Remove(h.socket); err != nil && !errors.Is(err, os.ErrNotExist) && h.closeErr == nil {
			h.closeErr = fmt.Errorf("remove player socket: %w", err)
		}
	})
	return h.closeErr
}
