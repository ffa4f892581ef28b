package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/repository"
)

// =========================================================================
// MOCK STORE
// =========================================================================
//
// mockStore implements repository.Store in memory. InTx snapshots the maps
// before running fn and puts the snapshot back when fn fails, which is all
// the services rely on.
//
// failOn names a method ("CreateUser", "AllOrders", ...) that should return
// errDiskFull, to simulate the store breaking halfway through a request.

var errDiskFull = errors.New("disk full")

type mockStore struct {
	users       map[int64]model.User
	orders      map[int64]model.Order
	nextUserID  int64
	nextOrderID int64
	clock       time.Time

	failOn string
	// failAfter lets the first N calls of failOn succeed.
	failAfter int
	calls     map[string]int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:  make(map[int64]model.User),
		orders: make(map[int64]model.Order),
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		calls:  make(map[string]int),
	}
}

func (m *mockStore) fail(method string) error {
	m.calls[method]++
	if m.failOn == method && m.calls[method] > m.failAfter {
		return errDiskFull
	}
	return nil
}

func (m *mockStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockStore) InTx(_ context.Context, fn func(tx repository.Repository) error) error {
	users := make(map[int64]model.User, len(m.users))
	for k, v := range m.users {
		users[k] = v
	}
	orders := make(map[int64]model.Order, len(m.orders))
	for k, v := range m.orders {
		orders[k] = v
	}
	nextUser, nextOrder := m.nextUserID, m.nextOrderID

	if err := fn(m); err != nil {
		m.users, m.orders = users, orders
		m.nextUserID, m.nextOrderID = nextUser, nextOrder
		return err
	}
	return nil
}

func (m *mockStore) Ping(context.Context) error { return m.fail("Ping") }

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	if err := m.fail("CreateUser"); err != nil {
		return err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.DuplicateEmail(user.Email)
		}
	}
	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = m.tick()
	m.users[user.ID] = *user
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if err := m.fail("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (m *mockStore) UserExists(_ context.Context, id int64) (bool, error) {
	if err := m.fail("UserExists"); err != nil {
		return false, err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockStore) EmailExists(_ context.Context, email string) (bool, error) {
	if err := m.fail("EmailExists"); err != nil {
		return false, err
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) ListUsers(_ context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	if err := m.fail("ListUsers"); err != nil {
		return nil, 0, err
	}
	q := strings.ToLower(opts.Query)
	var all []model.User
	for _, u := range m.users {
		if q == "" || strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(u.Email, q) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, opts), len(all), nil
}

func (m *mockStore) AllUsers(context.Context) ([]model.User, error) {
	if err := m.fail("AllUsers"); err != nil {
		return nil, err
	}
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (m *mockStore) DeleteUser(_ context.Context, id int64) error {
	if err := m.fail("DeleteUser"); err != nil {
		return err
	}
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	for oid, o := range m.orders {
		if o.UserID == id {
			delete(m.orders, oid)
		}
	}
	return nil
}

func (m *mockStore) CreateOrder(_ context.Context, order *model.Order) error {
	if err := m.fail("CreateOrder"); err != nil {
		return err
	}
	if _, ok := m.users[order.UserID]; !ok {
		return apperror.NotFound("user", order.UserID)
	}
	m.nextOrderID++
	order.ID = m.nextOrderID
	order.CreatedAt = m.tick()
	m.orders[order.ID] = *order
	return nil
}

func (m *mockStore) ListOrders(_ context.Context, opts repository.ListOptions) ([]model.OrderWithUser, int, error) {
	if err := m.fail("ListOrders"); err != nil {
		return nil, 0, err
	}
	q := strings.ToLower(opts.Query)
	var all []model.OrderWithUser
	for _, o := range m.orders {
		row := model.OrderWithUser{Order: o}
		if u, ok := m.users[o.UserID]; ok {
			s := u.Summary()
			row.User = &s
		}
		if q == "" || strings.Contains(strings.ToLower(o.ProductName), q) {
			all = append(all, row)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, opts), len(all), nil
}

func (m *mockStore) ListOrdersByUser(_ context.Context, userID int64) ([]model.Order, error) {
	if err := m.fail("ListOrdersByUser"); err != nil {
		return nil, err
	}
	var list []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (m *mockStore) AllOrders(context.Context) ([]model.Order, error) {
	if err := m.fail("AllOrders"); err != nil {
		return nil, err
	}
	all := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func window[T any](rows []T, opts repository.ListOptions) []T {
	if opts.Offset >= len(rows) {
		return nil
	}
	rows = rows[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(rows) {
		rows = rows[:opts.Limit]
	}
	return rows
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seedUser(t *testing.T, store *mockStore, name, email string) model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seedUser(%q): %v", email, err)
	}
	return *u
}
