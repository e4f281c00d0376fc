// Package rest provides HTTP handlers for product and reservation operations.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	inventoryerrors "github.com/ecomworks/orderflow/internal/inventory/errors"
	"github.com/ecomworks/orderflow/internal/inventory/service"
	"github.com/ecomworks/orderflow/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the inventory API with the provided service.
func NewHandler(service service.InventoryService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.FindProductByID)
	})
	r.Route("/api/v1/reservations", func(r chi.Router) {
		r.Post("/", h.Reserve)
		r.Post("/{id}/confirm", h.Confirm)
		r.Post("/{id}/release", h.Release)
	})
	r.Get("/healthz", h.HealthCheck)
}

// CreateProduct adds a new product with its initial stock.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var createDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&createDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, createDto) {
		return
	}

	created, err := h.service.CreateProduct(r.Context(), createDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// FindProducts retrieves a page of products.
func (h *Handler) FindProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGt(r, w, mLogger, "limit", 0)
	if !ok {
		return
	}
	offset, ok := web.ParseValidateGte(r, w, mLogger, "offset", 0)
	if !ok {
		return
	}

	list, err := h.service.FindProducts(r.Context(), offset, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, *list)
}

// FindProductByID retrieves a product by its ID.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrProductNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

type reserveRequest struct {
	Items []service.ReserveItemDto `json:"items" validate:"required,gt=0,dive"`
}

// Reserve holds stock for all requested items or none of them.
// A shortfall answers 409 with the full shortage list.
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}

	reservation, shortages, err := h.service.Reserve(r.Context(), req.Items)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrInsufficientStock) {
			mLogger.WarnContext(r.Context(), "Reservation rejected", "shortages", len(shortages))
			web.RespondJSON(w, mLogger, http.StatusConflict, map[string]any{
				"error":     err.Error(),
				"shortages": shortages,
			})
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating reservation", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create reservation")
		return
	}
	mLogger.InfoContext(r.Context(), "Reservation created", slog.String("ID", reservation.ID.String()))
	web.RespondJSON(w, mLogger, http.StatusCreated, reservation)
}

// Confirm makes a reservation's stock debit permanent.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "confirm", h.service.Confirm)
}

// Release re-stocks a reservation.
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "release", h.service.Release)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, id uuid.UUID) error) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	if err := fn(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, inventoryerrors.ErrReservationNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Reservation with ID %s not found", id))
		case errors.Is(err, inventoryerrors.ErrReservationExpired):
			web.RespondError(w, mLogger, http.StatusConflict, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Reservation transition failed", "action", action, "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s reservation %s", action, id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Reservation transition applied", "action", action, slog.String("ID", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, v any) bool {
	if err := h.validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
