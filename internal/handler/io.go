package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/service"
)

// TransferHandler serves the bulk /export and /import endpoints.
type TransferHandler struct {
	exports  *service.ExportService
	importer *service.Importer
	logger   *slog.Logger
}

func NewTransferHandler(exports *service.ExportService, importer *service.Importer, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{exports: exports, importer: importer, logger: logger}
}

// HandleExportUsers dumps every user, id ascending.
//
// HTTP: GET /export/users → {"items": [...]}
func (h *TransferHandler) HandleExportUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.exports.Users(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[service.UserView]{Items: users})
}

// HandleExportOrders dumps every order, id ascending.
//
// HTTP: GET /export/orders → {"items": [...]}
func (h *TransferHandler) HandleExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.exports.Orders(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[service.OrderView]{Items: orders})
}

// HandleExportAll dumps both tables from one consistent read.
//
// HTTP: GET /export/all → {"users": [...], "orders": [...]}
func (h *TransferHandler) HandleExportAll(w http.ResponseWriter, r *http.Request) {
	snap, err := h.exports.All(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleImportUsers bulk-creates users.
//
// HTTP: POST /import/users
// REQUEST BODY: {"items": [{"name": "...", "email": "..."}, ...]}
// RESPONSE: 201 {"created": n, "skipped": m}; 400 invalid_json when items is
// missing or not a list. Bad records only count as skipped.
func (h *TransferHandler) HandleImportUsers(w http.ResponseWriter, r *http.Request) {
	items, err := decodeItems(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.importer.ImportUsers(r.Context(), items)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleImportOrders bulk-creates orders for users that already exist.
//
// HTTP: POST /import/orders
// REQUEST BODY: {"items": [{"user_id": 1, "product_name": "...", "amount": 9.5}, ...]}
func (h *TransferHandler) HandleImportOrders(w http.ResponseWriter, r *http.Request) {
	items, err := decodeItems(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.importer.ImportOrders(r.Context(), items)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func decodeItems(r *http.Request) ([]any, error) {
	const msg = `expected {"items": [...]}`

	raw, err := decodeObject(r)
	if errors.Is(err, errBodyTooLarge) {
		return nil, err
	}
	if err != nil {
		return nil, apperror.InvalidJSON(msg)
	}
	items, ok := raw["items"].([]any)
	if !ok {
		return nil, apperror.InvalidJSON(msg)
	}
	return items, nil
}
