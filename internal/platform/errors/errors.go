package apperrors

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrCatalog              = errors.New("catalog request failed")

	// Playback session taxonomy.
	ErrConnectTimeout      = errors.New("player ipc socket did not appear")
	ErrIPCUnavailable      = errors.New("player ipc command failed")
	ErrRemoteReport        = errors.New("remote playback report failed")
	ErrDurationUnavailable = errors.New("item duration unavailable")
	ErrNoPlayer            = errors.New("player executable not found")
	ErrSessionActive       = errors.New("playback session already active")
	ErrPlayerExited        = errors.New("player exited before its ipc socket was ready")
)

// ErrInterrupted is returned when SIGINT or SIGTERM ended the process.
var ErrInterrupted = errors.New("interrupted")
