// Package ui implements the minerva command line interface.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/config"
	"github.com/anagarval/minerva/internal/db"
	"github.com/anagarval/minerva/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    block.Repository
	config  *config.Config
	root    *cobra.Command
	noColor bool
	debug   bool // Enable debug logging
}

// NewApp creates a new CLI application. A nil repository is opened lazily
// from the configured database path on first use.
func NewApp(repo block.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "minerva",
		Short: "A weekly study planner",
		Long: `Minerva is a weekly study planner for the terminal.

Run it without arguments to open the interactive week grid, where study
blocks can be created, dragged, resized, and auto-scheduled around your
availability windows.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.RunWithDebug(a.repo, a.config, a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to minerva-debug.log)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.completeCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.windowsCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.weekCmd())

	return a
}

// ensureRepo opens the configured database if no repository was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

// Close releases the repository if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("minerva %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
