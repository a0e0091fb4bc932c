// Command carteira manages the miles portfolio from the terminal: add and
// remove lots, inspect market quotes, record peer offers, and compare
// point-redemption routes against paying cash.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/brmiles/milhas-radar/internal/app"
	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/config"
)

var configFile = flag.String("config", "", "Configuration file path")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")
	commander.Register(&addCmd{}, "portfolio")
	commander.Register(&listCmd{}, "portfolio")
	commander.Register(&rmCmd{}, "portfolio")
	commander.Register(&quoteCmd{}, "market")
	commander.Register(&offerCmd{}, "market")
	commander.Register(&routeCmd{}, "market")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// openApp loads configuration and wires the application for one CLI
// invocation. CLI output stays clean: only warnings and errors are logged.
func openApp() (*app.App, error) {
	var paths []string
	if *configFile != "" {
		paths = append(paths, *configFile)
	} else {
		for _, p := range []string{"milhas-radar.toml", "config/milhas-radar.toml"} {
			if _, err := os.Stat(p); err == nil {
				paths = append(paths, p)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		return nil, err
	}

	logger := common.NewLoggerFromConfig(common.LoggingConfig{
		Level:   "warn",
		Outputs: []string{"console"},
	})
	return app.New(cfg, logger)
}
