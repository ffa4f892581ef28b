package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/order-desk/internal/logging"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/pagination"
	"github.com/sakif/order-desk/internal/repository"
	"github.com/sakif/order-desk/internal/validation"
)

// UserService handles business logic for users.
type UserService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewUserService(store repository.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// UserOrders is the response of the per-user order listing.
type UserOrders struct {
	Items []OrderView `json:"items"`
	Total int         `json:"total"`
}

// Create validates raw and stores a new user.
//
// Errors: apperror.ErrValidation (422) for bad input, apperror.ErrConflict
// (409, duplicate_email) when the normalised email is taken, including when
// another request wins the race between our insert and theirs.
func (s *UserService) Create(ctx context.Context, raw validation.Raw) (*model.User, error) {
	draft, err := validation.User(raw)
	if err != nil {
		return nil, validationError(err)
	}

	user := draft.User()
	err = s.store.InTx(ctx, func(tx repository.Repository) error {
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	logging.FromContext(ctx, s.logger).Info("user created",
		slog.Int64("id", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// List returns one page of users, newest first. query optionally filters on
// name or email.
func (s *UserService) List(ctx context.Context, page pagination.Page, query string) (pagination.Result[UserView], error) {
	users, total, err := s.store.ListUsers(ctx, repository.ListOptions{
		Limit:  page.Limit,
		Offset: page.Offset(),
		Query:  query,
	})
	if err != nil {
		return pagination.Result[UserView]{}, fmt.Errorf("listing users: %w", err)
	}
	return pagination.NewResult(userViews(users), page, total), nil
}

// Orders returns every order of one user, newest first.
// Returns apperror.ErrNotFound (user_not_found) if the user does not exist.
func (s *UserService) Orders(ctx context.Context, userID int64) (UserOrders, error) {
	var orders []model.Order
	err := s.store.InTx(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return err
		}
		list, err := tx.ListOrdersByUser(ctx, userID)
		orders = list
		return err
	})
	if err != nil {
		return UserOrders{}, fmt.Errorf("listing orders of user %d: %w", userID, err)
	}

	items := orderViews(orders)
	return UserOrders{Items: items, Total: len(items)}, nil
}

// Delete removes a user together with all of their orders.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx repository.Repository) error {
		return tx.DeleteUser(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}

	logging.FromContext(ctx, s.logger).Info("user deleted", slog.Int64("id", id))
	return nil
}
