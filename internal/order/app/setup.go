// Package app contains the application setup for the order service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/ecomworks/orderflow/internal/order/client"
	"github.com/ecomworks/orderflow/internal/order/config"
	"github.com/ecomworks/orderflow/internal/order/service"
	"github.com/ecomworks/orderflow/internal/order/store"
	"github.com/ecomworks/orderflow/internal/order/transport/rest"
	"github.com/ecomworks/orderflow/pkg/messaging"
	"github.com/ecomworks/orderflow/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	OrderService service.OrderService
	Logger       *slog.Logger
}

// SetupDependencies wires the order service explicitly: store, remote clients
// and publisher are constructed here and handed to the service.
func SetupDependencies(dbPool *pgxpool.Pool, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) *Dependencies {
	customers := client.NewCustomerClient(cfg.Services.Customer.BaseURL, cfg.Services.Customer.Timeout)
	inventory := client.NewInventoryClient(cfg.Services.Inventory.BaseURL, cfg.Services.Inventory.Timeout)
	oService := service.NewService(store.NewPgStore(dbPool), customers, inventory, publisher, cfg.Services.Inventory.Timeout)

	return &Dependencies{
		OrderService: oService,
		Logger:       logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the order service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	orderHandler := rest.NewHandler(deps.OrderService, deps.Logger)
	orderHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
}

// SetupHttpServer creates and configures an HTTP server for the order service.
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
