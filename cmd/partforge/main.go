// Command partforge runs the part generation service or a one-shot
// generation from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"partforge/pkg/builder"
	"partforge/pkg/builder/sdfxcad"
	"partforge/pkg/builder/solidcom"
	"partforge/pkg/config"
)

func main() {
	root := &cobra.Command{
		Use:   "partforge",
		Short: "Generate CAD parts from validated structured intents",
		Long: `partforge validates mechanical part intents against manufacturability
rules and drives an interchangeable CAD backend to produce an artifact file.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "path to a YAML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newGenerateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the --config flag into a Config, falling back to the
// compiled-in defaults when no file is given.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	var level zapcore.Level
	if err := level.Set(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// newRegistry constructs the closed adapter registry. The secondary engine
// degrades to an unavailable entry when its COM prerequisite is absent, so
// requests for it get a typed missing-capability result instead of a crash.
func newRegistry(cfg config.Config, log *zap.Logger) *builder.Registry {
	reg := builder.NewRegistry()
	reg.Register("primary", sdfxcad.NewWithResolution(cfg.Generation.MeshCells))

	if sw, err := solidcom.New(); err != nil {
		log.Info("secondary engine unavailable", zap.Error(err))
		reg.RegisterUnavailable("secondary", err)
	} else {
		reg.Register("secondary", sw)
	}
	return reg
}
