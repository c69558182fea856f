package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipechain/internal/config"
	"recipechain/internal/geom"
	"recipechain/internal/handler"
	"recipechain/internal/hub"
	"recipechain/internal/loader"
	"recipechain/internal/metrics"
	"recipechain/internal/repository/sqlite"
	"recipechain/internal/service"
	"recipechain/internal/session"
	"recipechain/internal/watcher"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive chain view over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			if path != "" {
				log.Info("config loaded", zap.String("path", path))
			}
			log.Info("starting recipechain", zap.String("version", version), zap.String("config", cfg.Summary()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	log.Info("database opened", zap.String("path", cfg.Database.Path))

	collector := metrics.NewCollector("recipechain")
	eventBus := service.NewEventBus()

	sess, err := session.New(session.Config{
		Layout:        cfg.EffectiveLayout(),
		FrameInterval: cfg.Layout.FrameInterval.Duration(),
		Viewport:      geom.Size{Width: cfg.Layout.Width, Height: cfg.Layout.Height},
		CacheSize:     session.DefaultConfig().CacheSize,
	}, service.FramePublisher(eventBus), log.Named("session"))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	dataLoader := loader.New(cfg.Data.Dir, log.Named("loader"))
	if err := dataLoader.EnsureDirs(); err != nil {
		return err
	}

	svc := service.New(dataLoader, repo, sess, eventBus, collector, log.Named("service"))
	sseHub := hub.New(log.Named("hub"))

	collector.WatchClients(sseHub.ClientCount)
	collector.WatchSession(sess.Stats)

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("embedded web content: %w", err)
	}

	httpLog := log.Named("http")
	router := handler.NewRouter(handler.NewChainHandler(svc, httpLog), handler.RouterOptions{
		Events:      sseHub,
		Metrics:     collector.Handler(),
		Instrument:  collector.Middleware,
		Static:      webContent,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      httpLog,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return sess.Run(gctx) })
	g.Go(func() error { return sseHub.Run(gctx) })
	g.Go(func() error {
		sseHub.Forward(gctx, eventBus)
		return nil
	})

	g.Go(func() error {
		if err := svc.Reload(gctx); err != nil && gctx.Err() == nil {
			log.Warn("initial dataset load incomplete", zap.Error(err))
		}
		return nil
	})

	if cfg.Data.Watch {
		g.Go(func() error {
			w := watcher.New(dataLoader.Paths(), log.Named("watcher")).
				WithDebounce(cfg.Data.Debounce.Duration())
			if err := w.Watch(gctx, svc.OnFileChanged); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch data directory: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("server stopped")
	return err
}
