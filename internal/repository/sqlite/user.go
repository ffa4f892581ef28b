package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/repository"
)

const userColumns = `id, name, email, created_at`

// CreateUser inserts a user and fills in its ID and CreatedAt.
//
// The caller passes a normalised email. A UNIQUE violation on users.email is
// translated to apperror.DuplicateEmail so a lost race between two requests
// surfaces as a conflict, not a 500.
func (q *queries) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()

	res, err := q.q.ExecContext(ctx,
		`INSERT INTO users (name, email, created_at) VALUES (?, ?, ?)`,
		user.Name,
		user.Email,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateEmail(user.Email)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUserByID retrieves a user by ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (q *queries) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := q.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return &u, nil
}

func (q *queries) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking user %d: %w", id, err)
	}
	return exists, nil
}

// EmailExists reports whether a user already has this (normalised) email.
func (q *queries) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email %s: %w", email, err)
	}
	return exists, nil
}

// ListUsers returns one page of users, newest first, and the matching total.
//
// LIMIT/OFFSET pagination: LIMIT N returns at most N rows, OFFSET M skips the
// first M. id DESC breaks ties between rows created in the same instant so
// pages never overlap.
func (q *queries) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	where, args := "", []any{}
	if opts.Query != "" {
		p := likePattern(opts.Query)
		where = `WHERE name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'`
		args = append(args, p, p)
	}

	var total int
	if err := q.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting users: %w", err)
	}

	rows, err := q.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users `+where+`
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows, opts.Limit)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// AllUsers returns every user ordered by id. Used by the export endpoints.
func (q *queries) AllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: exporting users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows, 0)
}

// DeleteUser removes a user; its orders go with it (ON DELETE CASCADE).
func (q *queries) DeleteUser(ctx context.Context, id int64) error {
	result, err := q.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

func scanUsers(rows *sql.Rows, n int) ([]model.User, error) {
	users := make([]model.User, 0, capHint(n))
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}
