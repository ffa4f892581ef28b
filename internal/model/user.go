// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages
// but without inheritance.
package model

import "time"

// Column widths for user fields.
const (
	MaxUserNameLength = 120
	MaxEmailLength    = 255
)

// User is a person who places orders.
//
// Email is always stored normalised (trimmed, lowercased) and is unique across
// all users. ID and CreatedAt are assigned by the store and never change.
// Deleting a User deletes its Orders (ON DELETE CASCADE in the schema).
type User struct {
	ID        int64     `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the slice of a User embedded in order listings.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the id/name/email projection of u.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserDraft is a validated, normalised user that has not been persisted yet.
// The max tags mirror MaxUserNameLength and MaxEmailLength.
type UserDraft struct {
	Name  string `json:"name"  validate:"required,max=120"`
	Email string `json:"email" validate:"required,max=255,email_shape"`
}

// User converts the draft into a model ready for insertion.
func (d UserDraft) User() *User {
	return &User{Name: d.Name, Email: d.Email}
}
