package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order constraints. MaxAmount matches a NUMERIC(10,2) column.
const (
	MaxProductNameLength = 200
	AmountScale          = 2
)

var MaxAmount = decimal.RequireFromString("99999999.99")

// Order is a purchase owned by exactly one User.
//
// Orders are immutable: there is no update path. Amount is always > 0 and
// carries two fractional digits.
type Order struct {
	ID          int64           `json:"id"           db:"id"`
	UserID      int64           `json:"user_id"      db:"user_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Amount      decimal.Decimal `json:"amount"       db:"amount"`
	CreatedAt   time.Time       `json:"created_at"   db:"created_at"`
}

// OrderWithUser is an Order annotated with its owner. User is nil when the
// owning row cannot be found.
type OrderWithUser struct {
	Order
	User *UserSummary
}

// OrderDraft is a validated order that has not been persisted yet. The
// referenced user is not checked here; that needs the store.
type OrderDraft struct {
	UserID      int64           `json:"user_id"`
	ProductName string          `json:"product_name" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
}

// Order converts the draft into a model ready for insertion.
func (d OrderDraft) Order() *Order {
	return &Order{UserID: d.UserID, ProductName: d.ProductName, Amount: d.Amount}
}
