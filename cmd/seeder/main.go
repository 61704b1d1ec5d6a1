package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/bootstrap"
	"github.com/cardoc/mechfind/internal/config"
	domprov "github.com/cardoc/mechfind/internal/domain/provider"
	logpkg "github.com/cardoc/mechfind/internal/logger"
	"github.com/cardoc/mechfind/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "seeder:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "seeder",
		Usage:   "Populate and inspect the mechfind provider store",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (default: config/<ENV>.yaml)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Validate a YAML seed file and write its providers to the store",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the seed file",
						Required: true,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "Print every stored provider",
				Action: listCommand,
			},
			{
				Name:   "delete",
				Usage:  "Remove a provider by id",
				Action: deleteCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "id",
						Usage:    "Provider id (repeatable)",
						Required: true,
					},
				},
			},
		},
	}
}

func loadCommand(c *cli.Context) error {
	path := c.String("file")
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	providers, err := parseSeed(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return withBackend(c, func(ctx context.Context, b *bootstrap.Backend, logger *zap.Logger) error {
		if err := b.Repo.Save(ctx, providers...); err != nil {
			return fmt.Errorf("save providers: %w", err)
		}
		logger.Info("Providers loaded", zap.Int("count", len(providers)), zap.String("driver", b.Driver))
		_, _ = fmt.Fprintf(c.App.Writer, "loaded %d providers into %s\n", len(providers), b.Driver)
		return nil
	})
}

func listCommand(c *cli.Context) error {
	return withBackend(c, func(ctx context.Context, b *bootstrap.Backend, _ *zap.Logger) error {
		providers, err := b.Repo.FetchAll(ctx)
		if err != nil {
			return fmt.Errorf("fetch providers: %w", err)
		}
		return printProviders(c.App.Writer, providers)
	})
}

func deleteCommand(c *cli.Context) error {
	ids := c.StringSlice("id")
	return withBackend(c, func(ctx context.Context, b *bootstrap.Backend, logger *zap.Logger) error {
		for _, id := range ids {
			if err := b.Repo.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			logger.Info("Provider deleted", zap.String("id", id))
		}
		_, _ = fmt.Fprintf(c.App.Writer, "deleted %d providers\n", len(ids))
		return nil
	})
}

// withBackend loads config, opens the store and runs fn.
func withBackend(c *cli.Context, fn func(context.Context, *bootstrap.Backend, *zap.Logger) error) error {
	env := config.GetEnv()

	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return err //nolint:wrapcheck // config errors name the file
	}

	logger, err := logpkg.NewLogger(env, c.String("log-level"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := bootstrap.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open provider store: %w", err)
	}
	defer b.Close()

	return fn(ctx, b, logger)
}

func printProviders(w io.Writer, providers []domprov.ServiceProvider) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tRATING\tREVIEWS\tLOCATION\tTAGS")
	for i := range providers {
		p := &providers[i]
		rating, reviews, location := "-", "-", "-"
		if v, ok := p.Rating(); ok {
			rating = strconv.FormatFloat(v, 'f', 1, 64)
		}
		if v, ok := p.ReviewCount(); ok {
			reviews = strconv.Itoa(v)
		}
		if loc, ok := p.Location(); ok {
			location = fmt.Sprintf("%.5f,%.5f", loc.Lat, loc.Lon)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID(), p.Name(), rating, reviews, location, strings.Join(p.Tags(), ", "))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
