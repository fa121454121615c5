package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/crm-service/internal/admin"
	"github.com/vasiliy-maslov/crm-service/internal/graph"
	crmHttp "github.com/vasiliy-maslov/crm-service/internal/handler/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the GraphQL API, admin listings, health and metrics",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Info().Msg("CRM service starting...")

	svc, err := openServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	schema, err := graph.NewSchema(graph.NewResolver(svc.customers, svc.products, svc.orders))
	if err != nil {
		return err
	}

	sqlxDB, err := admin.Open(svc.db)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := crmHttp.NewRouter(crmHttp.RouterConfig{
		Logger:   log.Logger,
		GraphQL:  crmHttp.NewGraphQLHandler(schema),
		Admin:    crmHttp.NewAdminHandler(admin.NewLister(sqlxDB)),
		Registry: registry,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-sigChan:
	}
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}
