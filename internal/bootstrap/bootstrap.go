package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	browseinadapter "playfin/internal/modules/browse/adapter/in"
	browseoutadapter "playfin/internal/modules/browse/adapter/out"
	browseservice "playfin/internal/modules/browse/service"
	browseusecase "playfin/internal/modules/browse/usecase"
	cataloginadapter "playfin/internal/modules/catalog/adapter/in"
	catalogoutadapter "playfin/internal/modules/catalog/adapter/out"
	catalogservice "playfin/internal/modules/catalog/service"
	catalogusecase "playfin/internal/modules/catalog/usecase"
	playbackinadapter "playfin/internal/modules/playback/adapter/in"
	playbackdto "playfin/internal/modules/playback/dto"
	playbackoutadapter "playfin/internal/modules/playback/adapter/out"
	playbackservice "playfin/internal/modules/playback/service"
	playbackusecase "playfin/internal/modules/playback/usecase"
	watchinadapter "playfin/internal/modules/watchstatus/adapter/in"
	watchoutadapter "playfin/internal/modules/watchstatus/adapter/out"
	watchservice "playfin/internal/modules/watchstatus/service"
	watchusecase "playfin/internal/modules/watchstatus/usecase"
	"playfin/internal/platform/clock"
	"playfin/internal/platform/config"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/id"
	"playfin/internal/platform/jellyfin"
	"playfin/internal/platform/logging"
	uiapp "playfin/internal/ui/app"
)

const (
	clientName = "playfin"
	Version    = "0.1.0"
)

type App struct {
	CatalogCLI     cataloginadapter.CLIHandler
	WatchStatusCLI watchinadapter.CLIHandler
	PlaybackCLI    playbackinadapter.CLIHandler
	PlaybackTUI    playbackinadapter.TUIHandler
	BrowseTUI      browseinadapter.TUIHandler

	cfg     config.Config
	log     hclog.Logger
	closers []io.Closer
}

func New(cfg config.Config) (*App, error) {
	log, logFile, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{cfg: cfg, log: log, closers: []io.Closer{logFile}}

	ids := id.UUID{}
	deviceID, err := ensureDeviceID(&app.cfg, ids)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	client := jellyfin.New(cfg.Server.URL, jellyfin.Identity{
		Client:   clientName,
		Device:   deviceName(),
		DeviceID: deviceID,
		Version:  Version,
	}, cfg.Timeouts.Browse)

	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(
		catalogoutadapter.NewJellyfinGateway(client),
	))

	watchUC := watchusecase.NewInteractor(watchservice.NewCache(
		watchoutadapter.NewCatalogEpisodeSource(catalogUC),
		log,
	))

	journal, err := playbackoutadapter.NewSQLiteJournal(cfg.DBPath())
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open playback journal: %w", err)
	}
	if c, ok := journal.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}
	playbackUC := playbackusecase.NewInteractor(playbackservice.NewSessionService(
		clock.SystemClock{},
		ids,
		playbackoutadapter.NewCatalogItemSource(catalogUC),
		playbackoutadapter.NewMPVLauncher(playbackoutadapter.PlayerOptions{
			Path:       cfg.Player.Path,
			Fullscreen: cfg.Player.Fullscreen,
			ConfigDir:  cfg.Player.ConfigDir,
			SubLang:    cfg.Player.SubLang,
			AudioLang:  cfg.Player.AudioLang,
			ExtraArgs:  cfg.Player.ExtraArgs,
		}, log),
		playbackoutadapter.NewMPVConnector(cfg.Timeouts.IPC, log),
		playbackoutadapter.NewJellyfinTracker(client),
		journal,
		playbackservice.Options{
			RuntimeDir:     cfg.RuntimeDir,
			ConnectTimeout: cfg.Timeouts.Connect,
			ReportTimeout:  cfg.Timeouts.Progress,
		},
		log,
	))

	browseUC := browseusecase.NewInteractor(browseservice.NewBrowseService(
		browseoutadapter.NewCatalogAdapter(catalogUC),
		browseoutadapter.NewWatchStatusAdapter(watchUC),
		log,
	))

	app.CatalogCLI = cataloginadapter.NewCLIHandler(catalogUC)
	app.WatchStatusCLI = watchinadapter.NewCLIHandler(watchUC)
	app.PlaybackCLI = playbackinadapter.NewCLIHandler(playbackUC)
	app.PlaybackTUI = playbackinadapter.NewTUIHandler(playbackUC)
	app.BrowseTUI = browseinadapter.NewTUIHandler(browseUC)
	return app, nil
}

// Login authenticates with the configured credentials. Every command that
// talks to the server calls it first.
func (a *App) Login(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeouts.Browse)
	defer cancel()
	session, err := a.CatalogCLI.Login(ctx, a.cfg.Server.Username, a.cfg.Server.Password)
	if err != nil {
		a.log.Error("authentication failed", "server", a.cfg.Server.URL, "error", err)
		return err
	}
	a.log.Info("authenticated", "server", a.cfg.Server.URL, "user", session.UserID)
	return nil
}

func (a *App) Config() config.Config { return a.cfg }

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunTUI owns the terminal until the user quits. SIGINT or SIGTERM aborts
// any running player without reporting and restores the terminal.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.BrowseTUI, app.PlaybackTUI, app.cfg.Timeouts.Browse)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var interrupted atomic.Bool
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigs:
			interrupted.Store(true)
			app.log.Warn("interrupted", "signal", sig.String())
			if err := app.PlaybackTUI.Abort(); err != nil {
				app.log.Debug("abort player", "error", err)
			}
			program.Kill()
		case <-done:
		}
	}()

	_, err := program.Run()
	close(done)
	if interrupted.Load() {
		return apperrors.ErrInterrupted
	}
	return err
}

// Play runs one session on the process terminal. An interrupt aborts the
// player without any further server call.
func Play(ctx context.Context, app *App, itemID string) (playbackdto.PlayOutput, error) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var interrupted atomic.Bool
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigs:
			interrupted.Store(true)
			app.log.Warn("interrupted", "signal", sig.String())
			if err := app.PlaybackCLI.Abort(); err != nil {
				app.log.Debug("abort player", "error", err)
			}
		case <-done:
		}
	}()

	out, err := app.PlaybackCLI.Play(ctx, itemID)
	if interrupted.Load() {
		return out, apperrors.ErrInterrupted
	}
	return out, err
}

func ensureDeviceID(cfg *config.Config, ids id.Generator) (string, error) {
	if cfg.Server.DeviceID != "" {
		return cfg.Server.DeviceID, nil
	}
	deviceID := ids.New()
	if err := config.SaveDeviceID(cfg.Dir, deviceID); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	cfg.Server.DeviceID = deviceID
	return deviceID, nil
}

func deviceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return clientName
	}
	return host
}
