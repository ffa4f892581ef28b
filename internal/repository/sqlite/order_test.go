package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/repository"
)

func createTestOrder(t *testing.T, db *DB, userID int64, product, amount string) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID:      userID,
		ProductName: product,
		Amount:      decimal.RequireFromString(amount),
	}
	if err := db.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("failed to create test order: %v", err)
	}
	return order
}

func TestCreateOrder(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "Ada", "ada@example.com")

	order := createTestOrder(t, db, u.ID, "Notebook", "12.5")

	if order.ID == 0 {
		t.Error("CreateOrder() did not set order.ID")
	}
	if order.CreatedAt.IsZero() {
		t.Error("CreateOrder() did not set order.CreatedAt")
	}

	orders, err := db.AllOrders(context.Background())
	if err != nil {
		t.Fatalf("AllOrders() error = %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("len(orders) = %d, want 1", len(orders))
	}
	if got := orders[0].Amount.StringFixed(2); got != "12.50" {
		t.Errorf("Amount = %s, want 12.50", got)
	}
}

func TestCreateOrder_UnknownUser(t *testing.T) {
	db := newTestDB(t)

	err := db.CreateOrder(context.Background(), &model.Order{
		UserID:      999,
		ProductName: "X",
		Amount:      decimal.NewFromInt(10),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("CreateOrder() error = %v, want ErrNotFound", err)
	}
}

func TestCreateOrder_NonPositiveAmountRejectedByStore(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "Ada", "ada@example.com")

	err := db.CreateOrder(context.Background(), &model.Order{
		UserID:      u.ID,
		ProductName: "X",
		Amount:      decimal.Zero,
	})
	if err == nil {
		t.Fatal("CreateOrder() should fail the amount > 0 CHECK")
	}
}

func TestListOrders_IncludesUserSummary(t *testing.T) {
	db := newTestDB(t)
	ada := createTestUser(t, db, "Ada", "ada@example.com")
	alan := createTestUser(t, db, "Alan", "alan@example.com")
	createTestOrder(t, db, ada.ID, "Cuaderno", "125")
	createTestOrder(t, db, alan.ID, "Regla", "57.5")

	orders, total, err := db.ListOrders(context.Background(), repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("ListOrders() = %d rows (total %d), want 2", len(orders), total)
	}
	// Newest first.
	if orders[0].ProductName != "Regla" {
		t.Errorf("first order = %q, want Regla", orders[0].ProductName)
	}
	if orders[0].User == nil || orders[0].User.Email != "alan@example.com" {
		t.Errorf("first order user = %+v, want alan", orders[0].User)
	}

	filtered, total, err := db.ListOrders(context.Background(), repository.ListOptions{Limit: 10, Query: "ada@"})
	if err != nil {
		t.Fatalf("ListOrders(q) error = %v", err)
	}
	if total != 1 || filtered[0].ProductName != "Cuaderno" {
		t.Errorf("ListOrders(q=ada@) = %+v, want only Cuaderno", filtered)
	}
}

func TestListOrdersByUser(t *testing.T) {
	db := newTestDB(t)
	ada := createTestUser(t, db, "Ada", "ada@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")
	createTestOrder(t, db, ada.ID, "First", "1")
	createTestOrder(t, db, other.ID, "Theirs", "1")
	createTestOrder(t, db, ada.ID, "Second", "2")

	orders, err := db.ListOrdersByUser(context.Background(), ada.ID)
	if err != nil {
		t.Fatalf("ListOrdersByUser() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("len(orders) = %d, want 2", len(orders))
	}
	if orders[0].ProductName != "Second" || orders[1].ProductName != "First" {
		t.Errorf("orders = %s, %s; want Second, First", orders[0].ProductName, orders[1].ProductName)
	}
}
