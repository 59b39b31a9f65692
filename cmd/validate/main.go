package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/casefile/internal"
	"github.com/starford/casefile/internal/report"
	"github.com/starford/casefile/internal/source"
	pkgconfig "github.com/starford/casefile/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	src, err := source.NewCSV(cfg.Data.Dir, cfg.Data.Files())
	if err != nil {
		return fmt.Errorf("open data directory: %w", err)
	}

	summary, err := report.Build(ctx, src)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return summary.Render(os.Stdout)
}

func main() {
	cmd := &cli.Command{
		Name:   "casefile-validate",
		Usage:  "Cross-reference the CSV datasets and report orphans and gaps",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("validate error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
