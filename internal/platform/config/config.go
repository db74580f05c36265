package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"playfin/internal/platform/credentials"
	apperrors "playfin/internal/platform/errors"
)

const fileName = "config.yaml"

type Server struct {
	URL            string `yaml:"url"`
	Username       string `yaml:"username"`
	SealedPassword string `yaml:"password,omitempty"`
	DeviceID       string `yaml:"device_id,omitempty"`

	// Password is the opened password; never written back in clear.
	Password string `yaml:"-"`
}

type Player struct {
	Path       string   `yaml:"path"`
	Fullscreen bool     `yaml:"fullscreen"`
	ConfigDir  string   `yaml:"config_dir,omitempty"`
	SubLang    string   `yaml:"slang,omitempty"`
	AudioLang  string   `yaml:"alang,omitempty"`
	ExtraArgs  []string `yaml:"args,omitempty"`
}

type Timeouts struct {
	Connect  time.Duration `yaml:"connect"`
	IPC      time.Duration `yaml:"ipc"`
	Progress time.Duration `yaml:"progress"`
	Browse   time.Duration `yaml:"browse"`
}

type Config struct {
	Dir        string `yaml:"-"`
	StateDir   string `yaml:"-"`
	RuntimeDir string `yaml:"-"`

	Server   Server   `yaml:"server"`
	Player   Player   `yaml:"player"`
	Timeouts Timeouts `yaml:"timeouts"`
	LogLevel string   `yaml:"log_level"`
}

func (c Config) Path() string    { return filepath.Join(c.Dir, fileName) }
func (c Config) KeyPath() string { return filepath.Join(c.Dir, "key") }
func (c Config) DBPath() string  { return filepath.Join(c.StateDir, "playfin.db") }
func (c Config) LogPath() string { return filepath.Join(c.StateDir, "playfin.log") }

// New returns a config rooted at dir with defaults applied; an empty dir
// resolves to the user config directory.
func New(dir string) (Config, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "playfin")
	}
	return Config{
		Dir:        dir,
		StateDir:   stateDir(),
		RuntimeDir: runtimeDir(),
		Player:     Player{Path: "mpv", Fullscreen: true},
		Timeouts: Timeouts{
			Connect:  5 * time.Second,
			IPC:      2 * time.Second,
			Progress: 2 * time.Second,
			Browse:   30 * time.Second,
		},
		LogLevel: "info",
	}, nil
}

// Load reads config.yaml (if present), then .env files, then environment
// overrides, and opens the sealed password.
func Load(dir string) (Config, error) {
	cfg, err := readFile(dir)
	if err != nil {
		return Config{}, err
	}

	if err := loadDotenv(cfg.Dir); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if cfg.Server.Password == "" && cfg.Server.SealedPassword != "" {
		plain, err := credentials.NewSealer(cfg.KeyPath()).Open(cfg.Server.SealedPassword)
		if err != nil {
			return Config{}, err
		}
		cfg.Server.Password = plain
	}
	return cfg, nil
}

// readFile returns the defaults overlaid with config.yaml only, without .env
// or environment overrides.
func readFile(dir string) (Config, error) {
	cfg, err := New(dir)
	if err != nil {
		return Config{}, err
	}
	raw, err := os.ReadFile(cfg.Path())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", cfg.Path(), err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", cfg.Path(), err)
	}
	return cfg, nil
}

// SaveDeviceID records deviceID in config.yaml, leaving every other value as
// it is on disk.
func SaveDeviceID(dir, deviceID string) error {
	cfg, err := readFile(dir)
	if err != nil {
		return err
	}
	cfg.Server.DeviceID = deviceID
	return Save(cfg)
}

// Save seals the password and writes config.yaml with 0600 permissions.
func Save(cfg Config) error {
	if cfg.Server.Password != "" {
		sealed, err := credentials.NewSealer(cfg.KeyPath()).Seal(cfg.Server.Password)
		if err != nil {
			return err
		}
		cfg.Server.SealedPassword = sealed
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(cfg.Path(), raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports whether enough is configured to talk to the server.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" || strings.TrimSpace(c.Server.Username) == "" || c.Server.Password == "" {
		return fmt.Errorf("%w: run `playfin login` or set JELLYFIN_URL, JELLYFIN_USERNAME and JELLYFIN_PASSWORD", apperrors.ErrMissingCredentials)
	}
	return nil
}

func loadDotenv(dir string) error {
	for _, path := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("JELLYFIN_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("JELLYFIN_USERNAME"); v != "" {
		cfg.Server.Username = v
	}
	if v := os.Getenv("JELLYFIN_PASSWORD"); v != "" {
		cfg.Server.Password = v
	}
	if v := os.Getenv("PLAYFIN_PLAYER"); v != "" {
		cfg.Player.Path = v
	}
	if v := os.Getenv("PLAYFIN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLAYFIN_FULLSCREEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Player.Fullscreen = b
		}
	}
}

func stateDir() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, "playfin")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "playfin")
	}
	return filepath.Join(os.TempDir(), "playfin")
}

func runtimeDir() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return filepath.Join(v, "playfin")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("playfin-%d", os.Getuid()))
}
