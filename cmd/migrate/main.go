package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starford/casefile/internal"
	"github.com/starford/casefile/internal/migrate"
	pkgconfig "github.com/starford/casefile/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required for migration (set MONGODB_URI or the config file)")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	opts := migrate.Options{
		SkipSessions:  cmd.Bool("skip-sessions"),
		SessionsLimit: int(cmd.Int("sessions-limit")),
		BatchSize:     int(cmd.Int("batch-size")),
		DryRun:        cmd.Bool("dry-run"),
	}
	if since := cmd.String("since"); since != "" {
		d, err := time.Parse("2006-01-02", since)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: want YYYY-MM-DD", since)
		}
		opts.Since = d
	}

	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect failed", slog.String("error", err.Error()))
		}
	}()

	runner := migrate.NewRunner(client.Database(cfg.Mongo.Database), cfg.Data.Dir, cfg.Data.Files(), logger)
	res, err := runner.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Migration completed",
		slog.Int("clients", res.Clients),
		slog.Int("intakes", res.Intakes),
		slog.Int("counselors", res.Counselors),
		slog.Int("sessions_read", res.SessionsRead),
		slog.Int("sessions_written", res.Sessions),
		slog.Bool("dry_run", opts.DryRun))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "casefile-migrate",
		Usage:  "Import the CSV datasets into MongoDB with normalized field names",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "skip-sessions",
				Usage: "Skip the session history import",
			},
			&cli.IntFlag{
				Name:  "sessions-limit",
				Usage: "Stop after importing this many session rows (0 = all)",
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "Only import sessions dated on or after YYYY-MM-DD",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Session bulk-write batch size",
				Value: 2000,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Read and normalize the data but write nothing",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("migration error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
