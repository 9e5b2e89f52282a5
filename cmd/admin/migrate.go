package main

import (
	"fmt"

	"flightclaim/backend/internal/storage"

	"github.com/spf13/cobra"
)

func migrateCMD() *cobra.Command {
	var steps int
	var auto bool

	var migrate = &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Run the embedded SQL migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			sqlDB, err := e.db.DB()
			if err != nil {
				return err
			}
			if err := storage.Migrate(sqlDB, args[0], steps); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			if auto && args[0] == "up" {
				if err := storage.AutoMigrate(e.db); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s done\n", args[0])
			return nil
		},
	}
	migrate.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	migrate.Flags().BoolVar(&auto, "auto", true, "also create tables and indexes from the models after up")

	return migrate
}
