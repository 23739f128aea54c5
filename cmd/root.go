package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/browse"
	"github.com/dt-pm-tools/aha-cli/internal/config"
	"github.com/dt-pm-tools/aha-cli/internal/tui"
)

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "aha",
	Short: "Browse Aha! releases and keep them in sync with GitHub",
	Long: `Without a subcommand, opens an interactive browser over Aha! projects, releases,
features and requirements. The last position is remembered in ~/.aha_cli_cache.
Use 'aha sync' to update features and requirements from open pull requests.`,
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		logger, closeLog, err := openLogFile()
		if err != nil {
			return err
		}
		defer closeLog()

		ctx := cmd.Context()
		client := aha.NewClient(appConfig.Aha, logger)
		store := browse.NewFileStore(browse.DefaultBreadcrumbPath())
		nav := browse.NewNavigator(client, store, logger)

		if err := nav.LoadProjects(ctx); err != nil {
			return err
		}
		crumb, err := store.Load()
		if err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "couldn't open %s: %v\n", store.Path(), err)
			}
			logger.Warn("breadcrumb unreadable", "path", store.Path(), "error", err)
		} else {
			nav.Restore(ctx, crumb)
		}

		model := tui.NewModel(ctx, browse.NewSession(nav, logger), tui.KeyMapFrom(appConfig.Keys))
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("running browser: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.aha-cli.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail")
}

// loadConfig loads ~/.env and then the config file, and validates the
// tracker settings. Commands that need Aha! access call this.
func loadConfig() error {
	if err := config.LoadDotEnv(config.DotEnvPath()); err != nil {
		return err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'aha config' to set up credentials", err)
	}
	appConfig = cfg
	return nil
}

// newLogger returns the stderr logger used by batch commands.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
}

// openLogFile returns a JSON logger writing to the temp dir. The browser
// owns the terminal, so it cannot log to stderr.
func openLogFile() (*slog.Logger, func(), error) {
	path := filepath.Join(os.TempDir(), "aha-cli.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: logLevel()}))
	return logger, func() { file.Close() }, nil
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
