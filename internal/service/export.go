package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/order-desk/internal/logging"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/repository"
)

// ExportService dumps whole tables in id order. Exports are not paginated.
type ExportService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewExportService(store repository.Store, logger *slog.Logger) *ExportService {
	return &ExportService{store: store, logger: logger}
}

// Snapshot is the combined export: both tables read in one transaction, so
// every order's user_id refers to a user in Users.
type Snapshot struct {
	Users  []UserView  `json:"users"`
	Orders []OrderView `json:"orders"`
}

func (s *ExportService) Users(ctx context.Context) ([]UserView, error) {
	start := time.Now()
	users, err := s.store.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting users: %w", err)
	}
	s.logDone(ctx, "users", start, slog.Int("users", len(users)))
	return userViews(users), nil
}

func (s *ExportService) Orders(ctx context.Context) ([]OrderView, error) {
	start := time.Now()
	orders, err := s.store.AllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting orders: %w", err)
	}
	s.logDone(ctx, "orders", start, slog.Int("orders", len(orders)))
	return orderViews(orders), nil
}

func (s *ExportService) All(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	var (
		users  []model.User
		orders []model.Order
	)
	err := s.store.InTx(ctx, func(tx repository.Repository) error {
		var err error
		if users, err = tx.AllUsers(ctx); err != nil {
			return err
		}
		orders, err = tx.AllOrders(ctx)
		return err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("exporting all: %w", err)
	}
	s.logDone(ctx, "all", start, slog.Int("users", len(users)), slog.Int("orders", len(orders)))
	return Snapshot{Users: userViews(users), Orders: orderViews(orders)}, nil
}

func (s *ExportService) logDone(ctx context.Context, kind string, start time.Time, counts ...slog.Attr) {
	attrs := append([]slog.Attr{slog.String("kind", kind)}, counts...)
	attrs = append(attrs, slog.Duration("duration", time.Since(start)))
	logging.FromContext(ctx, s.logger).LogAttrs(ctx, slog.LevelInfo, "export finished", attrs...)
}
