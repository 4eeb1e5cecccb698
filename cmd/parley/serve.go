package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parley-labs/parley"
	"github.com/parley-labs/parley/internal/config"
	"github.com/parley-labs/parley/internal/httpapi"
	"github.com/parley-labs/parley/internal/llm"
	"github.com/parley-labs/parley/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the training HTTP server",
	Long:  `Starts the training engine in server mode, exposing a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		port, _ := cmd.Flags().GetString("port")

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		for _, check := range config.Diagnostics() {
			logger.Info("environment check", "name", check.Name, "ok", check.OK, "detail", check.Detail)
		}
		if err := cfg.Validate(); err != nil {
			logger.Warn("configuration problem; free-form scoring and remediation will fail", "err", err)
		}

		model := llm.New(cfg.BaseURL, cfg.APIKey,
			llm.WithModel(cfg.Model),
			llm.WithLogger(logger),
		)

		opts := []parley.Option{
			parley.WithDialogueModel(model),
			parley.WithLogger(logger),
			parley.WithSessionTimeout(cfg.SessionTimeout),
		}
		if catalogPath != "" {
			opts = append(opts, parley.WithCatalogFile(catalogPath))
		}
		trainer, err := parley.New(opts...)
		if err != nil {
			fmt.Printf("Error initializing trainer: %v\n", err)
			os.Exit(1)
		}

		if port == "" {
			port = cfg.Port
		}
		handler := httpapi.NewHandler(trainer.Engine, trainer.Catalog, trainer.Sessions,
			httpapi.WithLogger(logger))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Expired sessions are swept on a fixed cadence; the store itself
		// never schedules anything.
		sweepCtx, stopSweep := context.WithCancel(context.Background())
		defer stopSweep()
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					if removed := trainer.Sessions.Sweep(); removed > 0 {
						logger.Info("swept expired sessions", "removed", removed)
					}
				}
			}
		}()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", srv.Addr, "topic", trainer.Catalog.Topic())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			logger.Error("server error", "err", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default: PORT env or 8080)")
}
