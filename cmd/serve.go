package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogdemo/config"
	"catalogdemo/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := connect(ctx); err != nil {
			return err
		}
		defer disconnect()

		if settings.JWTSecret == "" {
			log.Warn("JWT_SECRET is not set, admin API is disabled")
		}

		gin.SetMode(config.GetEnv(gin.EnvGinMode, gin.ReleaseMode))
		r := gin.New()
		r.Use(gin.Recovery())
		if err := r.SetTrustedProxies(nil); err != nil {
			return err
		}
		routes.RegisterRoutes(r, settings, log)

		srv := &http.Server{
			Addr:              settings.Address,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			log.WithField("address", settings.Address).Info("HTTP server listening")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
