package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/dmorell/vision-figures/internal/app"
	"github.com/dmorell/vision-figures/internal/config"
	"github.com/dmorell/vision-figures/internal/logging"
	"github.com/dmorell/vision-figures/internal/watch"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func setup(cmd *cli.Command) (*app.App, *config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	log := logging.NewConsole(cfg.App.LogLevel)
	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("vision-figures")
	return app.New(cfg, log), cfg, log, nil
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	a, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	return a.Generate(ctx)
}

func runRegen(ctx context.Context, cmd *cli.Command) error {
	a, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	return a.Regen(ctx)
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	a, cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	w := watch.New(cfg.Dirs.Images, log, func() error {
		a.InvalidateCache()
		return a.RenderFigures()
	})
	return w.Run(ctx)
}

func main() {
	cmd := &cli.Command{
		Name:    "vision-figures",
		Usage:   "Regenerate the classical image-filter comparison figures (medical, industrial, satellite)",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("VISION_FIGURES_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Download datasets, stage the nine study images and render all figures",
				Action: runGenerate,
			},
			{
				Name:   "regen",
				Usage:  "Re-render figures from staged images and print the filter metrics table",
				Action: runRegen,
			},
			{
				Name:   "watch",
				Usage:  "Re-render figures whenever the staged images change",
				Action: runWatch,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
