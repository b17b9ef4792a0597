package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/taggate/internal/config"
	"github.com/kailas-cloud/taggate/internal/db/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending postgres migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("migrate requires the postgres driver, config uses %q", cfg.Database.Driver)
		}

		pg, err := postgres.Open(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pg.Close()

		ctx := cmd.Context()
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		v, err := pg.MigrationVersion(ctx)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "version", v)
		return nil
	},
}
