// Command gated runs the gates declared in a YAML file and serves them over
// WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creastat/gate/behaviour"
	"github.com/creastat/gate/config"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/gates"
	"github.com/creastat/gate/metrics"
	"github.com/creastat/infra/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "gates.yaml", "path to the gate configuration")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, addr string) error {
	logger := telemetry.New(cfg.TelemetryConfig())

	registry := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(registry); err != nil {
		return err
	}

	behaviours := behaviour.NewRegistry()
	if err := gates.RegisterAll(behaviours); err != nil {
		return err
	}
	manager := behaviour.NewManager(behaviour.ManagerConfig{
		Registry: behaviours,
		Logger:   logger,
		Metrics:  m,
	})
	defer manager.DetachAll()

	store := entity.NewStore()
	built, err := cfg.Build(store, manager)
	if err != nil {
		return err
	}
	for _, e := range built {
		logger.Info("Entity ready",
			telemetry.String("entity_id", e.ID.String()),
			telemetry.String("type", e.TypeName))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(store, registry, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", telemetry.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
