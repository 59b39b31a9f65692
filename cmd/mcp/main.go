package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/casefile/internal"
	"github.com/starford/casefile/internal/casefile"
	"github.com/starford/casefile/internal/mcpserver"
	"github.com/starford/casefile/internal/source"
	pkgconfig "github.com/starford/casefile/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// stdout is the MCP transport; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	backend := cmd.String("backend")
	if backend == "" {
		backend = cfg.Backend.Default
	}

	var src source.Source
	switch backend {
	case internal.BackendCSV:
		csvSrc, err := source.NewCSV(cfg.Data.Dir, cfg.Data.Files())
		if err != nil {
			return fmt.Errorf("open data directory: %w", err)
		}
		src = csvSrc
	case internal.BackendMongo:
		if !cfg.Mongo.Enabled() {
			return fmt.Errorf("backend %q selected but mongo.uri is empty", backend)
		}
		mongoSrc, err := source.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer func() {
			if err := mongoSrc.Close(context.Background()); err != nil {
				logger.Warn("mongo disconnect failed", slog.String("error", err.Error()))
			}
		}()
		src = mongoSrc
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	svc := casefile.NewService(src, logger, cfg.Backend.SessionLimit)
	logger.Info("MCP server starting", slog.String("backend", svc.Backend()))
	return mcpserver.New(svc).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "casefile-mcp",
		Usage:  "Expose case-file search and lookup as MCP tools over stdio",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Record backend to serve from (csv or mongo); defaults to the configured default",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("mcp server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
