package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/pagination"
	"github.com/sakif/order-desk/internal/service"
)

// UserHandler serves /users.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleCreate creates a user.
//
// HTTP: POST /users
// REQUEST BODY: {"name": "Jane", "email": "jane@x.com"}
// RESPONSES: 201 user, 400 invalid_json, 422 validation_error, 409 duplicate_email
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.users.Create(r.Context(), raw)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, service.NewUserView(*user))
}

// HandleList returns one page of users, newest first.
//
// HTTP: GET /users?page=1&limit=10&q=jane
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.users.List(r.Context(), page, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleOrders returns every order of one user.
//
// HTTP: GET /users/{id}/orders → {"items": [...], "total": n}
func (h *UserHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.users.Orders(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleDelete removes a user and, by cascade, their orders.
//
// HTTP: DELETE /users/{id} → 204
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userID reads the {id} URL parameter. The route pattern only admits digits,
// so a parse failure here means the number does not fit in an int64, and no
// such user can exist.
func userID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Code:    apperror.CodeUserNotFound,
			Message: "user not found with id " + raw,
		}
	}
	return id, nil
}
