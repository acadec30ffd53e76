package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"tempus/config"
	"tempus/internal/repository/postgres"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "list", Usage: "List embedded migrations and exit."},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("list") {
				migrations, err := postgres.Migrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintln(c.App.Writer, m.Version)
				}
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := config.NewLogger()

			db, err := openDB(c.Context, cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.Migrate(c.Context, db, logger)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations complete", "applied", len(applied))
			return nil
		},
	}
}
