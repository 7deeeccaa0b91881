// Package cli provides the pravo command line interface.
package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alexuwunya/pravo-bot/internal/app"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	verbose   bool
	configDir string
	dataDir   string
	ephemeral bool
)

// application is built on first use so that commands such as version and
// config path never open storage.
var (
	appMu       sync.Mutex
	application *app.App
	injected    bool
)

var rootCmd = &cobra.Command{
	Use:   "pravo",
	Short: "Answer questions about Belarusian legal texts",
	Long: `Pravo answers questions about the Constitution of the Republic of Belarus
and the Law "On the Rights of the Child".

Each document is scraped once, split into articles, embedded and indexed in
its own vector collection. Questions are answered by a language model
restricted to the retrieved articles.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pravo)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides data_dir)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep texts and indexes in memory only")
}

// Execute runs the root command.
func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetApp injects a prebuilt application. Passing nil restores lazy construction.
func SetApp(a *app.App) {
	appMu.Lock()
	defer appMu.Unlock()
	application = a
	injected = a != nil
}

// getApp returns the application, building it from the root flags on first use.
func getApp() (*app.App, error) {
	appMu.Lock()
	defer appMu.Unlock()

	if application != nil {
		return application, nil
	}

	a, err := app.New(app.Options{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Ephemeral: ephemeral,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise: %w", err)
	}
	for _, w := range a.Warnings {
		logger.Warn("%s", w)
	}
	application = a
	return a, nil
}

// closeApp closes a lazily built application. Injected ones belong to the caller.
func closeApp() {
	appMu.Lock()
	defer appMu.Unlock()

	if application == nil || injected {
		return
	}
	if err := application.Close(); err != nil {
		logger.Warn("close: %v", err)
	}
	application = nil
}
