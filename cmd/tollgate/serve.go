package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tollgate/tollgate"
	"github.com/tollgate/tollgate/config"
	gatewayhttp "github.com/tollgate/tollgate/http"
	"github.com/tollgate/tollgate/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Long:  `Start the Tollgate HTTP gateway.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5710, "HTTP server port")
	serveCmd.Flags().String("bucket", "", "backing store bucket name")
	serveCmd.Flags().String("endpoint", "", "backing store endpoint URL")
	serveCmd.Flags().String("region", "", "backing store region")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var configFiles []string
	if cfgFile != "" {
		configFiles = append(configFiles, cfgFile)
	}

	cfg, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogging(cfg.Log)
	ctx = config.WithContext(ctx, cfg)

	if cfg.Storage.Bucket == "" {
		return errors.New("storage.bucket is required")
	}

	st, err := store.DialS3(ctx, cfg.Storage.S3Config())
	if err != nil {
		return fmt.Errorf("dial object store: %w", err)
	}
	slog.Info("connected to object store", "bucket", cfg.Storage.Bucket, "endpoint", cfg.Storage.Endpoint)

	if cfg.Auth.Password == "" {
		slog.Warn("no admin password configured, all endpoints are open")
	}

	var issuer *tollgate.TokenIssuer
	if secret := cfg.Auth.ResolveTokenSecret(); secret != "" {
		issuer = tollgate.NewTokenIssuer(secret)
	}

	handlerConfig := gatewayhttp.HandlerConfig{
		Admin: gatewayhttp.AdminConfig{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		},
		Tokens:        issuer,
		CORS:          cfg.CORS,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}

	handler := gatewayhttp.NewHandler(&handlerConfig, st)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
