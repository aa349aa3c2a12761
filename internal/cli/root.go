// Package cli is the command-line front end: it runs calculators from flags
// and shares the server's data directory for history and preferences.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"multicalc/internal/app"
	"multicalc/internal/calculator"
	"multicalc/internal/clipboard"
	"multicalc/internal/config"
	"multicalc/internal/i18n"
	"multicalc/internal/storage"
)

// env carries what every subcommand needs once the root has started.
type env struct {
	state     *app.State
	clipboard clipboard.Writer
	logger    *zap.Logger
}

// NewRootCmd creates the root command with the system clipboard.
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.LookupEnv, clipboard.System{})
}

func newRootCmd(lookup func(string) (string, bool), clip clipboard.Writer) *cobra.Command {
	e := &env{clipboard: clip}
	var (
		dataDir string
		lang    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "calc",
		Short:        "Multi-calculator: geometry, finance, statistics and unit conversion",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load(lookup)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}

			e.logger = newLogger(verbose)

			store, err := storage.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			loader := i18n.EmbeddedLoader()
			if cfg.LocalesDir != "" {
				loader = i18n.DirLoader(cfg.LocalesDir)
			}
			e.state = app.New(store, loader, calculator.DefaultCatalog(),
				app.WithLogger(e.logger),
				app.WithDefaultLanguage(cfg.DefaultLang),
			)
			if err := e.state.Start(cmd.Context()); err != nil {
				return fmt.Errorf("start session: %w", err)
			}
			if lang != "" {
				if err := e.state.SwitchLanguage(cmd.Context(), lang); err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultDataDir, "directory holding history and preferences")
	cmd.PersistentFlags().StringVar(&lang, "lang", "", "switch to this language before running")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(
		newListCmd(e),
		newRunCmd(e),
		newHistoryCmd(e),
		newThemeCmd(e),
	)
	return cmd
}

// newLogger logs warnings, or everything with verbose, to stderr.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
