// Package app contains the application setup for the inventory service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/ecomworks/orderflow/internal/inventory/config"
	"github.com/ecomworks/orderflow/internal/inventory/service"
	"github.com/ecomworks/orderflow/internal/inventory/store"
	"github.com/ecomworks/orderflow/internal/inventory/transport/rest"
	"github.com/ecomworks/orderflow/internal/inventory/worker"
	"github.com/ecomworks/orderflow/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	InventoryService service.InventoryService
	Sweeper          *worker.Sweeper
	Logger           *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) *Dependencies {
	inventoryStore := store.NewPgStore(dbPool)
	iService := service.NewService(inventoryStore, cfg.Reservation.TTL)
	sweeper := worker.NewSweeper(inventoryStore, logger, cfg.Reservation.SweepInterval, cfg.Reservation.SweepBatch)

	return &Dependencies{
		InventoryService: iService,
		Sweeper:          sweeper,
		Logger:           logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the inventory service.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	inventoryHandler := rest.NewHandler(deps.InventoryService, deps.Logger)
	inventoryHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
}

// SetupHttpServer creates and configures an HTTP server for the inventory service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
