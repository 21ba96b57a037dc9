package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/co2"
	"github.com/anrid/japan-co2/pkg/config"
	"github.com/anrid/japan-co2/pkg/dashboard"
	"github.com/anrid/japan-co2/pkg/embed"
	"github.com/anrid/japan-co2/pkg/logging"
)

// Build metadata, injected at build time.
var (
	BuildVersion = "dev"
	BuildCommit  = "unknown"
)

var (
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "co2dash",
	Short: "CO₂ reduction status for Japanese prefectures and cities",
	Long: `co2dash visualizes CO₂ reduction progress across Japan.

Run without arguments to open the interactive dashboard. The same data is
available over HTTP with "co2dash serve".`,
	Version:       fmt.Sprintf("%s (%s)", BuildVersion, BuildCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		// The dashboard owns the terminal, so its logs go to a file.
		if cmd == cmd.Root() && cfg.Logging.File == "" {
			cfg.Logging.File = "co2dash.log"
		}

		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "co2dash.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(createCmd, showCmd, importCmd, embedCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			_ = logger.Sync()
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadDataset returns the configured dataset, or the built-in sample
// when no data file is configured.
func loadDataset() (*co2.Dataset, error) {
	if cfg.Data.File == "" {
		return co2.SampleDataset(), nil
	}

	ds, found, err := co2.LoadIfExists(cfg.Data.File)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Data.File, err)
	}
	if !found {
		return nil, fmt.Errorf("no dataset found at %s, run `co2dash create` first", cfg.Data.File)
	}

	logger.Info("loaded dataset", zap.String("file", cfg.Data.File), zap.Int("prefectures", len(ds.Prefectures)))
	return ds, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	m := dashboard.NewModel(ds, dashboard.Options{
		Embeds:    embed.NewGenerator(cfg.Embed.BaseURL),
		ExportDir: cfg.Data.ExportDir,
		Logger:    logger,
	})
	return dashboard.Run(ctx, m)
}
