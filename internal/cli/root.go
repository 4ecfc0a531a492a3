// Package cli wires configuration, logging and the backend client into the
// tagboard commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/tagboard/internal/api"
	"github.com/tgienger/tagboard/internal/board"
	"github.com/tgienger/tagboard/internal/config"
	"github.com/tgienger/tagboard/internal/db"
	"github.com/tgienger/tagboard/internal/ui"
	"github.com/tgienger/tagboard/internal/ui/styles"
)

// LogFileName is written inside the data directory; the TUI owns the terminal
const LogFileName = "tagboard.log"

// App carries flag values and the resources built from them
type App struct {
	ConfigPath string
	APIURL     string
	DataDir    string
	LogLevel   string

	cfg     config.Config
	log     *slog.Logger
	logFile io.Closer
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tagboard",
		Short:        "Terminal board for tasks and their tags",
		Version:      version,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  tagboard

  # Print every task with its tags
  tagboard tasks

  # Talk to another backend
  tagboard --api http://tasks.internal:3010 tags
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/tagboard/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "Backend base URL")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", "", "Directory for the local store and log file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newTagsCmd(app))

	return cmd
}

// setup loads config, applies flags over it and starts logging
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.APIURL = a.APIURL
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = a.DataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log, closer, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	a.log = log
	a.logFile = closer

	log.Info("starting tagboard",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.APIURL),
		slog.String("command", cmd.Name()),
	)
	return nil
}

func (a *App) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// setupLogging configures the global slog logger. Development uses text
// format; anything else writes JSON.
func setupLogging(cfg config.Config) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.DataDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(f, opts)
	} else {
		handler = slog.NewJSONHandler(f, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log, f, nil
}

func (a *App) client() *api.Client {
	return api.NewClient(a.cfg.APIURL, a.cfg.RequestTimeout, a.log)
}

func runTUI(a *App) error {
	store, err := db.New(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer store.Close()

	app := ui.NewApp(ui.Options{
		Sync:   board.NewSync(a.client(), a.log),
		Flags:  store,
		Themes: styles.NewStore(styles.ModeDark),
		APIURL: a.cfg.APIURL,
		Log:    a.log,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}
