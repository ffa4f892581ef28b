package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/repository"
)

const orderColumns = `o.id, o.user_id, o.product_name, o.amount, o.created_at`

// CreateOrder inserts an order and fills in its ID and CreatedAt.
//
// The amount goes through decimal.Decimal's driver.Valuer; the CHECK
// constraint and the foreign key are the last line of defence behind the
// validation and user-existence checks done by the service.
func (q *queries) CreateOrder(ctx context.Context, order *model.Order) error {
	order.CreatedAt = time.Now().UTC()
	order.Amount = order.Amount.Round(model.AmountScale)

	res, err := q.q.ExecContext(ctx,
		`INSERT INTO orders (user_id, product_name, amount, created_at) VALUES (?, ?, ?, ?)`,
		order.UserID,
		order.ProductName,
		order.Amount,
		order.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", order.UserID)
		}
		return fmt.Errorf("sqlite: inserting order (userID=%d): %w", order.UserID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading order id: %w", err)
	}
	order.ID = id
	return nil
}

// ListOrders returns one page of orders, newest first, each joined with its
// owner. The LEFT JOIN keeps an order even if its owner row is gone; User is
// then nil.
func (q *queries) ListOrders(ctx context.Context, opts repository.ListOptions) ([]model.OrderWithUser, int, error) {
	where, args := "", []any{}
	if opts.Query != "" {
		p := likePattern(opts.Query)
		where = `WHERE o.product_name LIKE ? ESCAPE '\' OR u.name LIKE ? ESCAPE '\' OR u.email LIKE ? ESCAPE '\'`
		args = append(args, p, p, p)
	}
	from := ` FROM orders o LEFT JOIN users u ON u.id = o.user_id `

	var total int
	if err := q.q.QueryRowContext(ctx,
		`SELECT COUNT(*)`+from+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting orders: %w", err)
	}

	rows, err := q.q.QueryContext(ctx,
		`SELECT `+orderColumns+`, u.id, u.name, u.email`+from+where+`
		 ORDER BY o.created_at DESC, o.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.OrderWithUser, 0, capHint(opts.Limit))
	for rows.Next() {
		var (
			o         model.OrderWithUser
			userID    sql.NullInt64
			userName  sql.NullString
			userEmail sql.NullString
		)
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.ProductName, &o.Amount, &o.CreatedAt,
			&userID, &userName, &userEmail,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning order row: %w", err)
		}
		o.Amount = o.Amount.Round(model.AmountScale)
		if userID.Valid {
			o.User = &model.UserSummary{
				ID:    userID.Int64,
				Name:  userName.String,
				Email: userEmail.String,
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating orders: %w", err)
	}

	return orders, total, nil
}

// ListOrdersByUser returns all orders of one user, newest first. It does not
// check that the user exists; an unknown user simply has no orders.
func (q *queries) ListOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	rows, err := q.q.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders o
		 WHERE o.user_id = ?
		 ORDER BY o.created_at DESC, o.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing orders of user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// AllOrders returns every order ordered by id. Used by the export endpoints.
func (q *queries) AllOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := q.q.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders o ORDER BY o.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: exporting orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]model.Order, error) {
	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductName, &o.Amount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning order row: %w", err)
		}
		o.Amount = o.Amount.Round(model.AmountScale)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating orders: %w", err)
	}
	return orders, nil
}
