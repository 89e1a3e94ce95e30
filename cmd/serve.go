package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tutorloop/internal/api"
	"github.com/abhisek/tutorloop/internal/gateway"
	"github.com/abhisek/tutorloop/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lessons over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			env.cfg.Server.Addr = addr
		}

		offline, _ := cmd.Flags().GetBool("offline")
		gen, err := env.generator(cmd, offline)
		if err != nil {
			return err
		}

		m := metrics.New()
		factory := func(id string, cfg gateway.Config) (*gateway.Gateway, error) {
			return gateway.New(cfg, gen, env.gatewayOptions(id, m))
		}
		server := api.NewServer(env.lesson(), api.NewRegistry(env.cfg.Server.MaxSessions), factory, m, env.logger)

		srv := &http.Server{
			Addr:         env.cfg.Server.Addr,
			Handler:      server.Router(),
			ReadTimeout:  env.cfg.Server.ReadTimeout,
			WriteTimeout: env.cfg.Server.WriteTimeout,
			IdleTimeout:  2 * time.Minute,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			env.logger.Info("server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
			return nil
		case <-ctx.Done():
		}
		stop()

		env.logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		env.logger.Info("server stopped")
		return nil
	},
}

func init() {
	addLessonFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
