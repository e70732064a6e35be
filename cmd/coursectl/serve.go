package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/mindengage-courseware/internal/api/http"
	"github.com/mind-engage/mindengage-courseware/internal/auth"
	"github.com/mind-engage/mindengage-courseware/internal/session"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the preview HTTP surface",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	be, err := openBackend(openCtx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer be.Close()

	sessions := session.NewRegistry(
		session.WithTTL(auth.DefaultTTL),
		session.WithMaxSessions(cfg.MaxSessions),
	)
	d := api.Deps{
		Sessions: sessions,
		Auth:     auth.NewAuthService(cfg.AuthSecret, auth.DefaultTTL),
		Local:    storage.NewLocal(be.kv, cfg.Namespace, logger),
		Journal:  be.journal,
		Log:      logger,
		MaxDepth: cfg.DiscoveryMaxDepth,
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(d, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("mode", string(cfg.Mode)),
			zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		tick := time.NewTicker(time.Minute)
		defer tick.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-tick.C:
				if n := sessions.Sweep(); n > 0 {
					logger.Info("expired preview sessions closed", zap.Int("count", n))
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		sessions.CloseAll()
		logger.Info("preview server stopped")
		return err
	})
	return g.Wait()
}
