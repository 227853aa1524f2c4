package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"parallel/internal/wire"
)

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server, the ack router and the reminder loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := load()
			if err != nil {
				return err
			}
			defer closeLog()

			if cfg.Auth.JWTSecret == "" {
				return errNoSecret
			}

			app, cleanup, err := wire.InitializeApplication(cfg, logger)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Notification.Enabled {
				go app.Notifier.Run(ctx)
			}

			server := &http.Server{
				Addr:           cfg.Addr(),
				Handler:        app.API,
				ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
				MaxHeaderBytes: 1 << 20,
			}
			media := &http.Server{
				Addr:    cfg.Server.Host + ":" + cfg.Server.MediaPort,
				Handler: app.Media,
			}

			errCh := make(chan error, 2)
			for _, srv := range []*http.Server{server, media} {
				go func(srv *http.Server) {
					logger.Info("server starting", "addr", srv.Addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
				}(srv)
			}

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
			case err = <-errCh:
				logger.Error("server failed", "error", err)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			for _, srv := range []*http.Server{server, media} {
				if serr := srv.Shutdown(shutdownCtx); serr != nil {
					logger.Warn("server forced to shutdown", "addr", srv.Addr, "error", serr)
				}
			}

			logger.Info("server gracefully stopped")
			return err
		},
	}
}
