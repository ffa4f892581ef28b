package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/logging"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/pagination"
	"github.com/sakif/order-desk/internal/repository"
	"github.com/sakif/order-desk/internal/validation"
)

// OrderService handles business logic for orders.
type OrderService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewOrderService(store repository.Store, logger *slog.Logger) *OrderService {
	return &OrderService{store: store, logger: logger}
}

// Create validates raw and stores a new order.
//
// The user lookup and the insert share one transaction, so the referenced
// user cannot vanish in between. A missing user is a validation failure
// (422), not a 404: the request body is what is wrong.
func (s *OrderService) Create(ctx context.Context, raw validation.Raw) (*model.Order, error) {
	draft, err := validation.Order(raw)
	if err != nil {
		return nil, validationError(err)
	}

	order := draft.Order()
	err = s.store.InTx(ctx, func(tx repository.Repository) error {
		exists, err := tx.UserExists(ctx, draft.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.ValidationFailed("user_id", "user_id does not exist")
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	logging.FromContext(ctx, s.logger).Info("order created",
		slog.Int64("id", order.ID),
		slog.Int64("userID", order.UserID),
		slog.String("amount", order.Amount.StringFixed(model.AmountScale)),
	)
	return order, nil
}

// List returns one page of orders, newest first, each with its owner's
// summary. query optionally filters on product name or owner name/email.
func (s *OrderService) List(ctx context.Context, page pagination.Page, query string) (pagination.Result[OrderListItem], error) {
	orders, total, err := s.store.ListOrders(ctx, repository.ListOptions{
		Limit:  page.Limit,
		Offset: page.Offset(),
		Query:  query,
	})
	if err != nil {
		return pagination.Result[OrderListItem]{}, fmt.Errorf("listing orders: %w", err)
	}

	items := make([]OrderListItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, OrderListItem{
			OrderView: NewOrderView(o.Order),
			User:      o.User,
		})
	}
	return pagination.NewResult(items, page, total), nil
}
