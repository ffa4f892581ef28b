// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services receive the store as a repository.Store interface, never a
// concrete *sqlite.DB, so tests can hand them an in-memory double. Every
// mutation runs inside store.InTx: a request that fails halfway leaves nothing
// behind.
package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/validation"
)

// timeLayout is used for every created_at in responses.
const timeLayout = time.RFC3339Nano

// UserView is the JSON shape of a user.
type UserView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// OrderView is the JSON shape of an order. Amount is a JSON number with two
// fractional digits.
type OrderView struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	ProductName string      `json:"product_name"`
	Amount      json.Number `json:"amount"`
	CreatedAt   string      `json:"created_at"`
}

// OrderListItem is an order annotated with its owner, or "user": null.
type OrderListItem struct {
	OrderView
	User *model.UserSummary `json:"user"`
}

func NewUserView(u model.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(timeLayout),
	}
}

func NewOrderView(o model.Order) OrderView {
	return OrderView{
		ID:          o.ID,
		UserID:      o.UserID,
		ProductName: o.ProductName,
		Amount:      json.Number(o.Amount.StringFixed(model.AmountScale)),
		CreatedAt:   o.CreatedAt.UTC().Format(timeLayout),
	}
}

func userViews(users []model.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}

func orderViews(orders []model.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views
}

// validationError turns a *validation.Rejection into a 422-mapped AppError.
func validationError(err error) error {
	var rej *validation.Rejection
	if !errors.As(err, &rej) {
		return err
	}
	appErr := apperror.ValidationFailed(rej.Field, rej.Message)
	appErr.Details = map[string]string{
		"field":  rej.Field,
		"reason": string(rej.Reason),
	}
	return appErr
}
