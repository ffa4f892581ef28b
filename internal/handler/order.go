package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/order-desk/internal/pagination"
	"github.com/sakif/order-desk/internal/service"
)

// OrderHandler serves /orders.
type OrderHandler struct {
	orders *service.OrderService
	logger *slog.Logger
}

func NewOrderHandler(orders *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// HandleCreate creates an order.
//
// HTTP: POST /orders
// REQUEST BODY: {"user_id": 1, "product_name": "Widget", "amount": 19.99}
// RESPONSES: 201 order, 400 invalid_json, 422 validation_error (also for an
// unknown user_id)
func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.Create(r.Context(), raw)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, service.NewOrderView(*order))
}

// HandleList returns one page of orders, newest first, each with a "user"
// summary or null.
//
// HTTP: GET /orders?page=1&limit=10&q=widget
func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.orders.List(r.Context(), page, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
