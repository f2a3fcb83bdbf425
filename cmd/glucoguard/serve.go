package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"glucoguard/internal/api"
	"glucoguard/internal/app"
	"glucoguard/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := logging.New("glucoguard", cfg)
		gin.SetMode(gin.ReleaseMode)

		a, err := app.Bootstrap(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: api.NewRouter(a, logger.Named("api")),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("API listening", "port", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-quit:
		}
		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

var (
	metricsDays int
	cleanupDays int
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show model and predictor usage with system health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			r, err := a.Report(metricsDays)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(r.Usage) == 0 {
				fmt.Fprintln(out, "No usage recorded")
			}
			for _, d := range r.Usage {
				fmt.Fprintf(out, "%s  %6d tokens  %4d calls  %3d failed\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Failures)
			}
			fmt.Fprintf(out, "RAM: %dMB alloc / %dMB sys, goroutines: %d, state: %s\n",
				r.Health.AllocMB, r.Health.SysMB, r.Health.Goroutines, r.Health.StateDirSize)
			return nil
		})
	},
}

var metricsCleanupCmd = &cobra.Command{
	Use:   "metrics-cleanup",
	Short: "Delete usage records older than --days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			n, err := a.CleanupMetrics(cleanupDays)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d records\n", n)
			return nil
		})
	},
}

func init() {
	metricsCmd.Flags().IntVar(&metricsDays, "days", 7, "Days of usage to show")
	metricsCleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "Keep records newer than this many days")
	rootCmd.AddCommand(serveCmd, metricsCmd, metricsCleanupCmd)
}
