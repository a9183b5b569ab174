package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/scipunch/feedcards/config"
	"github.com/scipunch/feedcards/export"
	"github.com/scipunch/feedcards/fetcher"
	"github.com/scipunch/feedcards/filter"
	"github.com/scipunch/feedcards/page"
	"github.com/scipunch/feedcards/render"
)

func main() {
	slog.SetDefault(newLogger())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app().RunContext(ctx, os.Args); err != nil {
		slog.Error("feedcards failed", "error", err)
		os.Exit(1)
	}
}

// newLogger logs text to a terminal and JSON otherwise. DEBUG enables debug level.
func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func app() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   config.DefaultPath(),
		Usage:   "path to a TOML config",
		EnvVars: []string{"FEEDCARDS_CONFIG"},
	}

	return &cli.App{
		Name:  "feedcards",
		Usage: "Render the latest articles of RSS feeds as HTML cards",
		Description: `Fetches each configured feed through an RSS-to-JSON proxy and
		writes a page with up to five article cards per feed.

		Flags can be set via environment variables, e.g.:

		--config => FEEDCARDS_CONFIG=config.toml
		--output => FEEDCARDS_OUTPUT=index.html
		`,
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "HTML file to write (overrides output_path)",
				EnvVars: []string{"FEEDCARDS_OUTPUT"},
			},
			&cli.StringFlag{
				Name:    "pdf",
				Usage:   "also print the page to this PDF file",
				EnvVars: []string{"FEEDCARDS_PDF"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "init-config",
				Usage: "Write the default configuration",
				Flags: []cli.Flag{configFlag},
				Action: func(cCtx *cli.Context) error {
					return config.Write(cCtx.String("config"), config.Default())
				},
			},
		},
		Action: run,
	}
}

func run(cCtx *cli.Context) error {
	ctx := cCtx.Context
	cfgPath := cCtx.String("config")

	// Read config and create if default is missing
	conf, err := config.Read(cfgPath)
	if errors.Is(err, os.ErrNotExist) && cfgPath == config.DefaultPath() {
		if err := config.Write(cfgPath, conf); err != nil {
			return fmt.Errorf("failed to write default config with %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to read config with %w", err)
	}
	if out := cCtx.String("output"); out != "" {
		conf.OutputPath = out
	}

	creds, err := config.ReadCredentials(config.DefaultCredentialsPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read credentials with %w", err)
	}

	fetchers, err := fetcher.GetFetchers(conf, creds)
	if err != nil {
		return fmt.Errorf("failed to initialize fetchers with %w", err)
	}

	text := render.HTMLText{}
	filterPipeline, err := filter.NewFilterPipeline(conf.Filters, text)
	if err != nil {
		return fmt.Errorf("failed to initialize filters with %w", err)
	}
	if len(conf.Filters) > 0 {
		slog.Info("initialized filters", "count", len(conf.Filters))
	}

	sections := make([]page.Section, 0, len(conf.Feeds))
	for _, feed := range conf.Feeds {
		if feed.IsEnabled() {
			sections = append(sections, page.Section{ID: feed.ContainerID, Heading: feed.Name})
		}
	}
	doc := page.NewPage(conf.PageTitle, sections...)

	renderer := render.New(render.WithTextExtractor(text))
	controller := page.NewController(conf, doc, renderer, fetchers, filterPipeline)
	controller.Initialize(ctx)

	if err := ctx.Err(); err != nil {
		slog.Info("interrupted by user, exiting gracefully")
		return nil
	}

	if err := export.HTML(doc, conf.OutputPath); err != nil {
		return err
	}
	slog.Info("HTML file generated", "path", conf.OutputPath)

	if pdfPath := cCtx.String("pdf"); pdfPath != "" {
		if err := export.PDF(ctx, conf.OutputPath, pdfPath); err != nil {
			slog.Error("failed to generate PDF", "error", err)
		} else {
			slog.Info("PDF file generated", "path", pdfPath)
		}
	}
	return nil
}
