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

	"parallel/internal/common"
	"parallel/internal/dbmongo"
	"parallel/internal/dbmysql"
	"parallel/internal/media"
)

func migrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the MySQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := load()
			if err != nil {
				return err
			}
			defer closeLog()

			db, err := dbmysql.NewMySQL(cfg, logger)
			if err != nil {
				return err
			}
			defer dbmysql.Close(db)

			if err := dbmysql.Migrate(db); err != nil {
				return err
			}
			logger.Info("database migration completed", "tables", len(dbmysql.Models()))
			return nil
		},
	}
}

func tokenCmd(load loader) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id> <partner-id>",
		Short: "Issue a bearer token for a paired user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, closeLog, err := load()
			if err != nil {
				return err
			}
			defer closeLog()

			if cfg.Auth.JWTSecret == "" {
				return errNoSecret
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := common.GenerateToken([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, args[0], args[1], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to the configured TTL)")
	return cmd
}

func mediaCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "media",
		Short: "Serve stored media files only",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := load()
			if err != nil {
				return err
			}
			defer closeLog()

			client, err := dbmongo.NewMongoConnection(cfg)
			if err != nil {
				return fmt.Errorf("connect to MongoDB: %w", err)
			}
			defer client.Close(context.Background())

			storage := dbmongo.NewMediaStorage(client.GridFS, cfg.Server.MediaBaseURL, logger)
			server := &http.Server{
				Addr:    cfg.Server.Host + ":" + cfg.Server.MediaPort,
				Handler: media.NewHTTPServer(storage, logger),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			logger.Info("media server starting", "addr", server.Addr, "base_url", cfg.Server.MediaBaseURL)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
