package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"videoforge/internal/api"
	"videoforge/internal/config"
	"videoforge/internal/ideas"
	"videoforge/internal/imagery"
	"videoforge/internal/script"
	"videoforge/internal/thumbnail"
	"videoforge/internal/video"
	"videoforge/internal/voice"
	"videoforge/internal/workflow"
	"videoforge/internal/workspace"
	"videoforge/internal/youtube"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the pipeline HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Bind address",
				Sources: cli.EnvVars("VIDEOFORGE_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Listen port",
				Sources: cli.EnvVars("VIDEOFORGE_PORT"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if v := cmd.String("host"); v != "" {
				cfg.Server.Host = v
			}
			if v := cmd.Int("port"); v != 0 {
				cfg.Server.Port = int(v)
			}
			if v := cmd.String("log-level"); v != "" {
				cfg.Logging.Level = v
			}
			if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
				zerolog.SetGlobalLevel(level)
			}

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := workflow.NewStore()
	workspaces := workspace.NewManager(cfg.Workspace.Root, cfg.Workspace.Retention.Std(), cfg.Workspace.SweepEvery.Std())

	ideaSource, err := buildIdeaSource(cfg)
	if err != nil {
		return fmt.Errorf("idea source: %w", err)
	}

	runner := workflow.NewRunner(
		store,
		workspaces,
		ideaSource,
		script.NewComposer(),
		voice.NewSynthesizer(cfg.Voice.Language),
		imagery.NewFetcher(cfg.Imagery.ProviderURL),
		video.NewAssembler(cfg.Video.FPS, cfg.Video.Width, cfg.Video.Height, cfg.Video.AmbientVolume),
		thumbnail.NewRenderer(cfg.Thumbnail.Width, cfg.Thumbnail.Height),
		youtube.NewScheduler(cfg.Upload.CategoryID),
	)

	// Workspaces outlive their jobs so artifacts stay downloadable for a
	// while; the sweeper reclaims them once the job has been terminal for
	// longer than the retention window.
	go workspaces.Run(ctx, func(jobID string) bool {
		job, ok := store.Get(jobID)
		if !ok {
			return true
		}
		if job.Status != workflow.StatusCompleted && job.Status != workflow.StatusError {
			return false
		}
		return time.Since(job.UpdatedAt) > workspaces.Retention()
	})

	handler := api.NewHandler(store, runner)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("ideas", cfg.Ideas.Source).
		Msg("starting pipeline server")

	return api.Serve(ctx, cfg.Server.Host, cfg.Server.Port, handler)
}

func buildIdeaSource(cfg *config.Config) (workflow.IdeaSource, error) {
	switch cfg.Ideas.Source {
	case "reddit":
		return ideas.NewRedditSource(cfg.Ideas.Subreddits, cfg.Ideas.MinScore, cfg.Ideas.LookbackDays)
	case "sheet", "":
		return ideas.NewSheetSource(), nil
	default:
		return nil, fmt.Errorf("unknown ideas source %q", cfg.Ideas.Source)
	}
}
