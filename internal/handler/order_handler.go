package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"webshop/internal/model"
	"webshop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/v1/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetTracking handles GET /api/v1/orders/{id}/tracking.
func (h *OrderHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order not found", h.logger)
		return
	}

	tracking, err := h.service.GetTracking(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, trackingResponse{
		Count:    len(tracking),
		Tracking: tracking,
		Order: trackingOrder{
			ID:             order.ID,
			Status:         order.Status,
			TrackingNumber: order.TrackingNumber,
		},
	})
}

// GetByTrackingNumber handles GET /api/v1/orders/tracking/{trackingNumber}.
func (h *OrderHandler) GetByTrackingNumber(w http.ResponseWriter, r *http.Request) {
	trackingNumber := chi.URLParam(r, "trackingNumber")
	if trackingNumber == "" {
		writeError(w, http.StatusBadRequest, "tracking number is required", h.logger)
		return
	}

	order, err := h.service.GetByTrackingNumber(r.Context(), trackingNumber)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order not found", h.logger)
		return
	}

	tracking, err := h.service.GetTracking(r.Context(), order.ID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, trackedOrderResponse{
		Order:    order,
		Tracking: tracking,
	})
}

// UpdateStatus handles PATCH /api/v1/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status, req.Details); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// orderID parses the {id} route parameter.
func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return 0, false
	}
	return id, true
}

type trackingOrder struct {
	ID             int64             `json:"id"`
	Status         model.OrderStatus `json:"status"`
	TrackingNumber string            `json:"tracking_number"`
}

type trackingResponse struct {
	Count    int                   `json:"count"`
	Tracking []model.OrderTracking `json:"tracking"`
	Order    trackingOrder         `json:"order"`
}

type trackedOrderResponse struct {
	Order    *model.Order          `json:"order"`
	Tracking []model.OrderTracking `json:"tracking"`
}
