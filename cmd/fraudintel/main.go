// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/toriana04/fraudintel"
	"github.com/toriana04/fraudintel/config"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "fraudintel",
		Usage: "Search, classify and explain financial fraud articles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (default: search fraudintel.yaml)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file overlaid on the environment; empty disables it",
				Value: ".env",
			},
		},
		Metadata: map[string]any{},
		Before:   setup,
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			suggestCommand(),
			compareCommand(),
			classifyCommand(),
			exploreCommand(),
			trendsCommand(),
			explainCommand(),
			askCommand(),
			defineCommand(),
			ingestCommand(),
			exportCommand(),
			pruneCacheCommand(),
		},
	}
}

// setup loads the configuration and installs the default logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"), config.WithEnvFile(c.String("env-file")))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	c.App.Metadata[configKey] = cfg
	return nil
}

func configOf(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// withEngine opens the engine for the duration of fn.
func withEngine(c *cli.Context, fn func(*fraudintel.Engine) error) error {
	engine, err := fraudintel.Open(c.Context, configOf(c))
	if err != nil {
		return err
	}
	defer engine.Close()
	return fn(engine)
}
