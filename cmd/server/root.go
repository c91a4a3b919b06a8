package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agri-advisor/internal/config"
)

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	envFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "agri-advisor",
		Short:         "Soil advisories and a farming chat assistant over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	envDefault := os.Getenv("ENV_FILE")
	if envDefault == "" {
		envDefault = config.DefaultEnvFile
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", envDefault, "dotenv file merged into the environment")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newEvaluateCmd(),
		newCommandsCmd(a),
	)
	return root
}

func (a *app) init() error {
	envErr := config.LoadEnvFile(a.envFile)

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	if envErr != nil {
		a.logger.Warn("env file not loaded, using process environment",
			zap.String("path", a.envFile), zap.Error(envErr))
	}
	return nil
}
