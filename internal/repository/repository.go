// Package repository declares the storage contracts the services depend on.
//
// Services only see these interfaces; internal/repository/sqlite provides the
// real implementation and tests provide in-memory ones.
package repository

import (
	"context"

	"github.com/sakif/order-desk/internal/model"
)

// ListOptions selects one window of a listing. Query, when non-empty, is a
// case-insensitive substring filter.
type ListOptions struct {
	Limit  int
	Offset int
	Query  string
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// ListUsers returns one page ordered by created_at DESC plus the total
	// number of matching rows.
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, int, error)
	// AllUsers returns every user ordered by id ASC.
	AllUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	// ListOrders returns one page ordered by created_at DESC, each row joined
	// with its owner, plus the total number of matching rows.
	ListOrders(ctx context.Context, opts ListOptions) ([]model.OrderWithUser, int, error)
	// ListOrdersByUser returns all orders of one user, newest first.
	ListOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// AllOrders returns every order ordered by id ASC.
	AllOrders(ctx context.Context) ([]model.Order, error)
}

// Repository is the full set of queries, usable both on the store and inside
// a transaction.
type Repository interface {
	UserRepository
	OrderRepository
}

// Store is the shared, durable store. InTx runs fn in a transaction that is
// committed when fn returns nil and rolled back otherwise; everything fn
// writes through tx is visible to later reads through tx only.
type Store interface {
	Repository
	InTx(ctx context.Context, fn func(tx Repository) error) error
	Ping(ctx context.Context) error
}
