// Package app contains the application setup for the customer service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/ecomworks/orderflow/internal/customer/config"
	"github.com/ecomworks/orderflow/internal/customer/service"
	"github.com/ecomworks/orderflow/internal/customer/store"
	"github.com/ecomworks/orderflow/internal/customer/transport/rest"
	"github.com/ecomworks/orderflow/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	CustomerService service.CustomerService
	Logger          *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, logger *slog.Logger) *Dependencies {
	cService := service.NewService(store.NewPgStore(dbPool))
	return &Dependencies{
		CustomerService: cService,
		Logger:          logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the customer service.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	customerHandler := rest.NewHandler(deps.CustomerService, deps.Logger)
	customerHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the customer service.
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
