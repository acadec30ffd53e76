package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	_ "tempus/docs"
)

// @title Tempus API
// @version 1.0
// @description Calendar scheduling service: meetings, availability, an event catalog and iCalendar export.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "tempus",
		Usage: "Calendar scheduling service.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "err", err)
		os.Exit(1)
	}
}
