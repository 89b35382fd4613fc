package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"fbx2json/internal/config"
	"fbx2json/internal/logging"
	"fbx2json/internal/metrics"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	configFile  string
	metricsFile string
	verbose     int

	logger   *slog.Logger
	recorder *metrics.Recorder
)

var rootCmd = &cobra.Command{
	Use:   "fbx2json",
	Short: "Derive tangents from geometry channels and export scene graphs as JSON",
	Long: `fbx2json resolves per-vertex geometry channels of a scene graph, converts
the OutlineNormal vertex color channel into a tangent channel and writes the
result as a JSON document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Level(verbose))
		recorder = metrics.New()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	// Metrics are written for failed runs too.
	if merr := writeMetrics(); merr != nil && err == nil {
		err = merr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Verbose logging (repeat for more)")
}

// loadConfig reads --config when given and applies flag overrides.
func loadConfig(flags config.Flags) (config.Config, error) {
	var cfg config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return cfg, err
		}
	}
	flags.MetricsFile = metricsFile
	cfg.Resolve(flags)
	metricsFile = cfg.MetricsFile
	return cfg, nil
}

func writeMetrics() error {
	if metricsFile == "" || recorder == nil {
		return nil
	}
	if err := recorder.WriteTextfile(metricsFile); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	logger.Debug("metrics written", "path", metricsFile)
	return nil
}
