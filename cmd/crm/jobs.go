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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/crm-service/internal/jobs"
)

var (
	jobsCmd = &cobra.Command{
		Use:   "jobs",
		Short: "Run the maintenance jobs against the GraphQL API",
	}

	jobsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the configured jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := jobs.NewRegistry(cfg.Jobs)
			for _, name := range registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	jobsRunCmd = &cobra.Command{
		Use:   "run [job]",
		Short: "Run one job once",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobOnce,
	}

	jobsScheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Run every enabled job on its interval until interrupted",
		RunE:  runJobSchedule,
	}
)

func init() {
	jobsCmd.AddCommand(jobsListCmd, jobsRunCmd, jobsScheduleCmd)
}

func runJobOnce(cmd *cobra.Command, args []string) error {
	job, err := jobs.NewRegistry(cfg.Jobs).Get(args[0])
	if err != nil {
		return err
	}

	o := jobs.NewRunner(jobs.LogSink{Logger: log.Logger}).Run(cmd.Context(), job)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", o.Job, o.Status, o.Detail)
	if o.Status == jobs.StatusFailed {
		return fmt.Errorf("job %s failed", o.Job)
	}
	return nil
}

func runJobSchedule(cmd *cobra.Command, args []string) error {
	entries := jobs.NewRegistry(cfg.Jobs).Enabled()

	reg := prometheus.NewRegistry()
	runner := jobs.NewRunner(jobs.LogSink{Logger: log.Logger}, jobs.NewMetricsSink(reg))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Jobs.MetricsAddr != "" {
		srv := metricsServer(cfg.Jobs.MetricsAddr, reg)
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("Starting job metrics server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Job metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Job metrics server shutdown failed")
			}
		}()
	}

	return jobs.NewScheduler(runner, entries...).Run(ctx)
}

func metricsServer(addr string, reg *prometheus.Registry) *http.Server {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
