package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/cast-scheduler/internal/db"
	"github.com/BruksfildServices01/cast-scheduler/internal/obs"
	"github.com/BruksfildServices01/cast-scheduler/internal/routes"
	ucBooking "github.com/BruksfildServices01/cast-scheduler/internal/usecase/booking"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the edit window sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			shutdownTracer, err := obs.InitTracer(ctx, cfg.OTLPEndpoint, cfg.AppEnv, Version)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracer(context.Background()); err != nil {
					log.WithError(err).Warn("tracer shutdown failed")
				}
			}()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.WithError(err).Warn("shutdown failed")
				}
			}()

			if migrateUp {
				if err := dbpkg.Migrate(a.db); err != nil {
					return err
				}
			}

			// ------------------------------
			// Background sweep
			// ------------------------------
			sweepDone := make(chan struct{})
			go func() {
				defer close(sweepDone)
				ucBooking.NewExpireEditWindows(a.deps).Run(ctx, cfg.SweepInterval)
			}()

			// ------------------------------
			// HTTP
			// ------------------------------
			if cfg.Production() {
				gin.SetMode(gin.ReleaseMode)
			}
			r := gin.Default()

			r.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			routes.RegisterRoutes(r, cfg, a.deps, a.audit, log)

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", cfg.Addr()).Info("server running")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					cancel()
					<-sweepDone
					return err
				}
			}

			log.Info("shutting down")
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()

			err = srv.Shutdown(shutdownCtx)
			cancel()
			<-sweepDone
			return err
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "run database migrations on startup")
	return cmd
}
