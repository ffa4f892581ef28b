// Package validation turns raw, untyped input into validated drafts.
//
// It is the single definition of what makes a User or an Order valid. Both the
// single-create endpoints and the bulk importer call into it, so the two paths
// can never disagree. Nothing here touches the store: a function receives a
// decoded JSON object and returns either a draft or a *Rejection.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sakif/order-desk/internal/model"
)

// Reason tags why a raw record was rejected.
type Reason string

const (
	InvalidUserData  Reason = "invalid_user_data"
	InvalidOrderData Reason = "invalid_order_data"
)

// Raw is one candidate record as decoded from a JSON object. Numbers are
// expected as json.Number (decoder.UseNumber), but float64 and Go integer
// types are accepted too.
type Raw = map[string]any

// Rejection is returned when a raw record cannot become a draft.
type Rejection struct {
	Reason  Reason
	Field   string
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func rejectOrder(field, message string) *Rejection {
	return &Rejection{Reason: InvalidOrderData, Field: field, Message: message}
}

// User validates and normalises a raw user record. Keys other than name and
// email (id, created_at, ...) are ignored.
func User(raw Raw) (model.UserDraft, error) {
	name := stringField(raw, "name")
	email := stringField(raw, "email")
	draft := model.UserDraft{
		Name:  strings.TrimSpace(name),
		Email: NormalizeEmail(email),
	}
	if err := check(draft, InvalidUserData); err != nil {
		return model.UserDraft{}, err
	}
	return draft, nil
}

// Order validates and normalises a raw order record. Whether user_id refers
// to an existing user is left to the caller.
func Order(raw Raw) (model.OrderDraft, error) {
	userID, ok := Int(raw["user_id"])
	if !ok {
		return model.OrderDraft{}, rejectOrder("user_id", "user_id must be an integer")
	}

	productName := stringField(raw, "product_name")
	draft := model.OrderDraft{
		UserID:      userID,
		ProductName: strings.TrimSpace(productName),
	}
	if err := check(draft, InvalidOrderData); err != nil {
		return model.OrderDraft{}, err
	}

	amount, ok := Decimal(raw["amount"])
	if !ok {
		return model.OrderDraft{}, rejectOrder("amount", "amount must be a number")
	}
	if !amount.IsPositive() {
		return model.OrderDraft{}, rejectOrder("amount", "amount must be greater than 0")
	}
	amount = amount.Round(model.AmountScale)
	if !amount.IsPositive() {
		return model.OrderDraft{}, rejectOrder("amount", "amount must be at least 0.01")
	}
	if amount.GreaterThan(model.MaxAmount) {
		return model.OrderDraft{}, rejectOrder("amount",
			fmt.Sprintf("amount must not exceed %s", model.MaxAmount.StringFixed(model.AmountScale)))
	}
	draft.Amount = amount

	return draft, nil
}

// NormalizeEmail trims and lowercases an email address. Every uniqueness
// comparison happens on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether s has the shape local@domain.tld: exactly one '@',
// a non-empty local part, and a domain of at least two non-empty labels.
// Whitespace is not allowed anywhere.
func IsEmail(s string) bool {
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" {
			return false
		}
	}
	return true
}

// stringField returns raw[key] when it is a string and "" otherwise, so a
// missing or non-string value fails the required tag.
func stringField(raw Raw, key string) string {
	s, _ := raw[key].(string)
	return s
}
