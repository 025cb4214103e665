package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"linkdir/internal/announce"
	"linkdir/internal/build"
	"linkdir/internal/domain/config"
	domainerr "linkdir/internal/domain/errors"
	"linkdir/internal/index"
	"linkdir/internal/ingest"
	"linkdir/internal/logger"
	"linkdir/internal/publish"
	"linkdir/internal/serve"
)

func main() {
	app := &cli.Command{
		Name:  "linkdir",
		Usage: "Build a static link directory from a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "site.yaml",
				Sources: cli.EnvVars("LINKDIR_CONFIG"),
			},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Sources: cli.EnvVars("LINKDIR_LOG_LEVEL")},
			&cli.StringFlag{Name: "log-format", Usage: "text or json", Sources: cli.EnvVars("LINKDIR_LOG_FORMAT")},
		},
		Commands: []*cli.Command{
			buildCmd(),
			announceCmd(),
			serveCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("linkdir failed", slog.String("error", err.Error()))
		stop()
		if errors.Is(err, domainerr.ErrExhausted) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

// setup loads and validates the config and installs the logger.
func setup(cmd *cli.Command) (config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := cmd.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(logger.Config{
		Format: cfg.Log.Format,
		Level:  logger.ParseLevel(cfg.Log.Level),
	})
	slog.SetDefault(log)
	return cfg, log, nil
}

// loadConfig requires a config file the user named. The implicit default
// path may be absent, in which case the defaults must validate on their own.
func loadConfig(path string, explicit bool) (config.Config, error) {
	if explicit {
		return config.Load(path)
	}
	return config.LoadOrDefault(path)
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Generate the site into the public directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force-screenshot", Usage: "Recapture screenshots that already exist"},
			&cli.BoolFlag{Name: "no-snapshot", Usage: "Skip screenshots entirely"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("force-screenshot") {
				cfg.Build.ForceScreenshot = true
			}
			if cmd.Bool("no-snapshot") {
				cfg.Snapshot.Enabled = false
			}

			src := ingest.NewWorkbookSource(cfg.Source.WorkbookURL, nil)
			defer src.Close()

			b := &build.Builder{Cfg: cfg, Source: src, Logger: log}
			res, err := b.Run(ctx)
			if res != nil {
				log.Info("build finished",
					slog.Int("links", res.Links),
					slog.Int("categories", res.Categories),
					slog.Int("pages", res.Pages),
					slog.Int("screenshots", res.SnapshotsTaken),
					slog.Int("screenshots_skipped", res.SnapshotsSkipped),
					slog.Int("screenshots_failed", res.SnapshotsFailed),
					slog.Int("warnings", len(res.Warnings)))
			}
			return err
		},
	}
}

func announceCmd() *cli.Command {
	return &cli.Command{
		Name:  "announce",
		Usage: "Post the next link in date order",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log the message instead of posting; the cursor does not move"},
			&cli.IntFlag{Name: "history", Usage: "List the last N announcements and exit"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			dryRun := cfg.Announce.DryRun || cmd.Bool("dry-run")

			store, err := index.Open(index.OpenOptions{Path: cfg.Announce.StatePath})
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer store.Close()

			src := ingest.NewWorkbookSource(cfg.Source.WorkbookURL, nil)
			defer src.Close()

			a := &announce.Announcer{
				Source: src,
				Config: cfg,
				Store:  store,
				Logger: log,
				DryRun: dryRun,
			}

			if n := cmd.Int("history"); n > 0 {
				items, err := a.History(int(n))
				if err != nil {
					return err
				}
				for _, it := range items {
					fmt.Printf("%s\t%d\t%s\n", it.At.Format("2006-01-02 15:04"), it.Index, it.URL)
				}
				return nil
			}

			if dryRun {
				a.Publisher = publish.LogPublisher{Logger: log}
			} else {
				if err := cfg.Twitter.ValidateCredentials(); err != nil {
					return fmt.Errorf("twitter credentials: %w", err)
				}
				a.Publisher = publish.NewTwitter(ctx, cfg.Twitter)
			}

			res, err := a.Run(ctx)
			if err != nil {
				return err
			}
			log.Info("announced", slog.Int("index", res.Index), slog.String("message", res.Message))
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Build, serve the output and rebuild on changes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "Listen address"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			src := ingest.NewWorkbookSource(cfg.Source.WorkbookURL, nil)
			defer src.Close()

			s := serve.New(cfg, &build.Builder{Cfg: cfg, Source: src, Logger: log}, log)
			defer s.Close()

			return s.ListenAndServe(ctx, cmd.String("addr"))
		},
	}
}
