package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/handler"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	health := handler.NewHealthHandler(cfg.SearchBackend, cfg.ModelBackend, service.ModelName(cfg), d.mongo)
	app := handler.NewApp(cfg, d.rag, health)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		return app.Listen(":" + cfg.Port)
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := eg.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
