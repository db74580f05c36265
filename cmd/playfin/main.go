package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"playfin/internal/bootstrap"
	"playfin/internal/platform/config"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/platform/logging"
	"playfin/internal/ui/components"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, apperrors.ErrInterrupted) {
			os.Exit(130)
		}
		_, _ = fmt.Fprintln(os.Stderr, logging.Redact(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	browse := newBrowseCmd(&configDir)
	root := &cobra.Command{
		Use:           "playfin",
		Short:         "Browse a Jellyfin library and play it in mpv",
		Version:       bootstrap.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          browse.RunE,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default $XDG_CONFIG_HOME/playfin)")

	root.AddCommand(browse)
	root.AddCommand(newPlayCmd(&configDir))
	root.AddCommand(newLoginCmd(&configDir))
	root.AddCommand(newHistoryCmd(&configDir))
	root.AddCommand(newStatusCmd(&configDir))
	return root
}

func loadApp(configDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// connect loads the app and authenticates; callers own Close.
func connect(ctx context.Context, configDir string) (*bootstrap.App, error) {
	app, err := loadApp(configDir)
	if err != nil {
		return nil, err
	}
	if err := app.Login(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func newBrowseCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the library in the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := connect(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newPlayCmd(configDir *string) *cobra.Command {
	var itemID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one item and sync its progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := connect(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer app.Close()

			out, err := bootstrap.Play(cmd.Context(), app, itemID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s: %s -> %s", out.Name, clock(float64(out.StartSeconds)), clock(out.FinalSeconds))
			_, _ = fmt.Fprintf(w, " (%d reports, %d failed", out.ReportsSent, out.ReportsFailed)
			if !out.StopReported {
				_, _ = fmt.Fprint(w, ", stop not reported")
			}
			_, _ = fmt.Fprintln(w, ")")
			return nil
		},
	}
	cmd.Flags().StringVar(&itemID, "item-id", "", "Jellyfin item id")
	_ = cmd.MarkFlagRequired("item-id")
	return cmd
}

func newLoginCmd(configDir *string) *cobra.Command {
	var serverURL, username string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify and store server credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.Server.URL = serverURL
			}
			if username != "" {
				cfg.Server.Username = username
			}
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), passwordStdin)
			if err != nil {
				return err
			}
			cfg.Server.Password = password

			app, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.Login(cmd.Context()); err != nil {
				return err
			}
			// Keep the device id New may have assigned.
			saved := app.Config()
			saved.Server.Password = password
			if err := config.Save(saved); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in to %s as %s\n", saved.Server.URL, saved.Server.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "server URL")
	cmd.Flags().StringVar(&username, "username", "", "user name")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin without prompting")
	return cmd
}

func newHistoryCmd(configDir *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent playback sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			defer app.Close()

			entries, err := app.PlaybackCLI.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				reported := "reported"
				if !e.StopReported {
					reported = "unreported"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s -> %s\t%.0f%%\t%s\t%s\n",
					e.StartedAt.Local().Format(time.DateTime), e.ItemID, e.Name,
					clock(float64(e.StartSeconds)), clock(float64(e.EndSeconds)),
					e.Percent, e.Outcome, reported)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of sessions")
	return cmd
}

func newStatusCmd(configDir *string) *cobra.Command {
	var showID, seasonID string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print aggregate watch status for a show or season",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := connect(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer app.Close()

			w := cmd.OutOrStdout()
			if seasonID != "" {
				status, err := app.WatchStatusCLI.Season(cmd.Context(), showID, seasonID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "%s\twatched=%t\tpartial=%t\n", seasonID, status.Watched, status.Partial)
				return nil
			}
			report, err := app.WatchStatusCLI.Show(cmd.Context(), showID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "%s\twatched=%t\tpartial=%t\n", report.ShowID, report.Show.Watched, report.Show.Partial)
			for _, id := range slices.Sorted(maps.Keys(report.Seasons)) {
				s := report.Seasons[id]
				_, _ = fmt.Fprintf(w, "  %s\twatched=%t\tpartial=%t\n", id, s.Watched, s.Partial)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&showID, "show-id", "", "series id")
	cmd.Flags().StringVar(&seasonID, "season-id", "", "season id")
	_ = cmd.MarkFlagRequired("show-id")
	return cmd
}

// readPassword prompts without echo on a terminal; piped input, or
// --password-stdin, is read as a single line.
func readPassword(in io.Reader, out io.Writer, fromStdin bool) (string, error) {
	if fromStdin || !isTerminal(in) {
		return readLine(in)
	}
	password, err := components.ReadPassword(in, out, "Password:")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("%w: empty password", apperrors.ErrInvalidInput)
	}
	return password, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("%w: empty password", apperrors.ErrInvalidInput)
	}
	return line, nil
}

func clock(seconds float64) string {
	total := int64(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}
