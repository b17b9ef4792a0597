package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/taggate/internal/bootstrap"
	"github.com/kailas-cloud/taggate/internal/config"
)

var (
	flagEnv     string
	flagConfig  string
	flagVerbose bool

	logger = newLogger()
)

var rootCmd = &cobra.Command{
	Use:           "tagctl",
	Short:         "taggate operator tool",
	Long:          "Tag texts offline, manage gateway API users and run database migrations.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		return err
	}
	return nil
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "tagctl",
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.InfoLevel,
	})
}

// loadConfig reads the gateway config from --config, or from the --env
// lookup path when no file is given.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load(flagEnv)
}

// openStorage opens the gateway's configured storage driver.
func openStorage(ctx context.Context) (*bootstrap.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Debug("opening storage", "driver", cfg.Database.Driver)
	return bootstrap.OpenStorage(ctx, cfg, zap.NewNop())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a gateway config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug output")

	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}
