package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"modelhost/internal/config"
	"modelhost/internal/events"
	"modelhost/internal/httpapi"
	"modelhost/internal/launcher"
	"modelhost/internal/manager"
	"modelhost/internal/registry"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP control server",
		Example: "  modelhost serve --models-dir ~/models/llm\n" +
			"  MODELHOST_ADDR=:9090 modelhost serve --watch=false",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg, a.log)
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "HTTP listen address, e.g. :8080")
	f.Int("event-buffer", 0, "Per-subscriber notification buffer")
	f.Duration("stop-grace", 0, "Wait after SIGTERM before killing the worker (0 kills immediately)")
	f.Duration("write-timeout", 0, "Deadline for writes to the worker's stdin (0 disables)")
	f.Bool("forward-prompt", false, "Deliver the prompt to a worker started by /prompt")
	f.Bool("watch", true, "Rescan the models directory on changes")
	f.Int("demo-count", 0, "Token lines printed by the demo worker")
	f.Duration("demo-interval", 0, "Delay between demo worker token lines")
	f.Bool("cors", false, "Enable CORS")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins")
	f.Int64("max-body-bytes", 0, "Maximum JSON request body size")
	return cmd
}

// newResolver builds the default strategy chain with the demo fallback
// pointing back at this binary.
func newResolver(cfg config.Config, log zerolog.Logger) *launcher.Resolver {
	exe, err := os.Executable()
	if err != nil {
		log.Warn().Err(err).Msg("cannot locate own executable; demo fallback disabled")
		exe = ""
	}
	return launcher.Default(launcher.Options{
		LlamaBin:       cfg.LlamaBin,
		LlamaArgs:      cfg.LlamaArgs,
		DiscoverLlama:  true,
		DemoExecutable: exe,
		DemoCount:      cfg.DemoCount,
		DemoInterval:   cfg.DemoInterval(),
	})
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	bus := events.NewBus(manager.IncDroppedEvents)
	defer bus.Close()

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		ModelsDir:            cfg.ModelsDir,
		Extensions:           cfg.ModelExtensions,
		Resolver:             newResolver(cfg, log),
		Publisher:            bus,
		Logger:               &log,
		StopGrace:            cfg.StopGrace(),
		WriteTimeout:         cfg.WriteTimeout(),
		ForwardPromptOnStart: config.Bool(cfg.ForwardPromptOnStart),
	})
	defer func() {
		if snap := mgr.Snapshot(); snap.State == manager.StateRunning {
			log.Info().Str("model", snap.ModelID).Str("run_id", snap.RunID).Int("pid", snap.PID).Msg("stopping worker on shutdown")
		}
		if err := mgr.Close(); err != nil {
			log.Warn().Err(err).Msg("stopping worker on shutdown")
		}
	}()
	if rep := mgr.SanityCheck(); rep.Unlaunchable > 0 {
		log.Warn().Strs("strategies", rep.Strategies).Int("unlaunchable", rep.Unlaunchable).Int("models", len(rep.Plans)).Msg("some models have no launch strategy")
	}

	if config.Bool(cfg.WatchModels) {
		w := registry.NewWatcher(cfg.ModelsDir, 0, func() {
			if _, err := mgr.RescanModels(); err == nil {
				log.Info().Int("models", len(mgr.ListModels())).Msg("catalog updated")
			}
		}, log.With().Str("component", "watcher").Logger())
		if err := w.Start(); err != nil {
			log.Warn().Err(err).Str("dir", cfg.ModelsDir).Msg("models watcher not started")
		} else {
			defer w.Stop()
		}
	}

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetEventBuffer(cfg.EventBuffer)
	httpapi.SetCORSOptions(config.Bool(cfg.CORSEnabled), cfg.CORSOrigins, nil, nil)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr, bus),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Int("models", len(mgr.ListModels())).Msg("modelhost listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
