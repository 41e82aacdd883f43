// Command omnisearch translates search queries and runs them against JSON
// record files or the entries table.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"linkarchive/internal/config"
	"linkarchive/internal/domain/entries"
	"linkarchive/internal/domain/omnisearch"
	"linkarchive/pkg/logger"
)

const (
	configFlag  = "config"
	searchFlag  = "search"
	verboseFlag = "verbose"
	dsnFlag     = "dsn"
	inputFlag   = "input"
)

func newDSNFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    dsnFlag,
		Usage:   "PostgreSQL connection string (default: database url of the config)",
		Sources: cli.EnvVars("DATABASE_URL"),
	}
}

func newInputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     inputFlag,
		Aliases:  []string{"i"},
		Usage:    "JSON file (array or object, optionally zstd compressed)",
		Required: true,
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "omnisearch",
		Usage: "Translate and run link archive search queries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "YAML config file with the search section",
				Sources: cli.EnvVars("CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    searchFlag,
				Aliases: []string{"s"},
				Usage:   "search query, e.g. 'title = go & ~bookmarked == True'",
			},
			&cli.BoolFlag{
				Name:    verboseFlag,
				Aliases: []string{"v"},
				Usage:   "log at debug level",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := "warn"
			if cmd.Bool(verboseFlag) {
				level = "debug"
			}
			log, err := logger.New(logger.Config{
				Level:       level,
				Development: true,
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return ctx, err
			}
			logger.SetDefault(log.WithComponent("omnisearch"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			newConditionsCommand(),
			newSQLCommand(),
			newFilterCommand(),
			newSearchCommand(),
			newImportCommand(),
		},
	}
}

// settings is the search configuration shared by all subcommands.
type settings struct {
	cfg      *config.Config
	mapping  *omnisearch.Mapping
	defaults []string
}

func loadSettings(cmd *cli.Command) (*settings, error) {
	cfg, err := config.Load(cmd.String(configFlag))
	if err != nil {
		return nil, err
	}

	defaults := cfg.Search.DefaultFields
	if len(defaults) == 0 {
		defaults = entries.DefaultSearchFields
	}
	return &settings{
		cfg:      cfg,
		mapping:  entries.NewMapping(cfg.Search.Mapping),
		defaults: defaults,
	}, nil
}

func (s *settings) dsn(cmd *cli.Command) (string, error) {
	if dsn := cmd.String(dsnFlag); dsn != "" {
		return dsn, nil
	}
	if err := s.cfg.RequireDatabase(); err != nil {
		return "", fmt.Errorf("flag --dsn is required: %w", err)
	}
	return s.cfg.Database.URL, nil
}
