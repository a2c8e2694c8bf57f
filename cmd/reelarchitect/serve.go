package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reelarchitect/config"
	"reelarchitect/handlers"
	"reelarchitect/internal/aiclient"
	"reelarchitect/internal/history"
	"reelarchitect/internal/metrics"
	"reelarchitect/internal/session"
	"reelarchitect/internal/worker"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, log)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	genCfg := cfg.GeneratorConfig()
	genCfg.Logger = log
	generator, err := aiclient.NewGenerator(ctx, cfg.GeneratorBackend, genCfg)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Warn("REEL_GEMINI_API_KEY is not set; generation requests will be rejected upstream.")
	}

	backend, err := config.NewHistoryBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize history backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.WithError(err).Warn("Failed to close history backend")
		}
	}()

	m := metrics.New()
	diagnostics := handlers.Diagnostics(log, m)

	dispatcher := worker.NewDispatcher(cfg.AppendWorkers, cfg.AppendQueue, log)
	dispatcher.Run()
	// Pending appends are written before the store closes.
	defer dispatcher.Stop()

	appender := history.NewAppender(dispatcher, diagnostics, history.DefaultAppendTimeout)
	registry := session.NewRegistry(cfg.AppID)

	h := handlers.NewApplicationHandler(generator, log, backend.Provider, backend.Open, appender, diagnostics, m,
		history.SubscribeOptions{PollInterval: cfg.HistoryPollInterval, Logger: log})
	app := handlers.NewApp(h, registry, handlers.RouterConfig{
		SessionTTL:       cfg.SessionIdle,
		ConsoleAccessLog: cfg.LogFormat == "text",
	})

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := registry.Sweep(cfg.SessionIdle); n > 0 {
					log.WithField("removed", n).Debug("Swept idle sessions")
				}
				m.SetActiveSessions(registry.Len())
			}
		}
	}()

	listenErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":      cfg.ListenAddr(),
			"history":   backend.Name,
			"generator": cfg.GeneratorBackend,
			"model":     genCfg.Model,
		}).Info("Starting Reel Architect")
		listenErr <- app.Listen(cfg.ListenAddr())
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	// Closing sessions ends the open history streams so the server can drain.
	registry.Close()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Warn("Server did not shut down cleanly")
	}
	<-sweepDone
	return nil
}
