package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/textmesh/config"
	"github.com/hupe1980/textmesh/server"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var agentName string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if agentName != "" {
				cfg.Agent = agentName
			}

			logger := buildLogger(cfg)

			entry, err := buildRegistry().Resolve(cfg.Agent)
			if err != nil {
				return err
			}

			srv := server.New(buildEngine(cfg, logger), entry, func(o *server.Options) {
				o.Store = buildStore(cfg)
				o.Logger = logger
			})

			httpSrv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", cfg.Server.Addr, "agent", cfg.Agent)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&agentName, "agent", "a", "", "agent to host (overrides config)")

	return cmd
}
