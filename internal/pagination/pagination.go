// Package pagination computes page/limit windows for list endpoints.
//
// Everything here is a pure function of its inputs: missing parameters take
// defaults, out-of-range values are clamped, and only non-integer input is
// rejected.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sakif/order-desk/internal/apperror"
)

const maxInt = int(^uint(0) >> 1)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is an effective (page, limit) pair. Page >= 1 and 1 <= Limit <= MaxLimit.
type Page struct {
	Page  int
	Limit int
}

// Parse turns raw query values into a Page. Empty strings mean "absent".
func Parse(page, limit string) (Page, error) {
	p, err := parseInt("page", page, DefaultPage)
	if err != nil {
		return Page{}, err
	}
	l, err := parseInt("limit", limit, DefaultLimit)
	if err != nil {
		return Page{}, err
	}
	return New(p, l), nil
}

// FromQuery reads "page" and "limit" from q.
func FromQuery(q url.Values) (Page, error) {
	return Parse(q.Get("page"), q.Get("limit"))
}

// New clamps page to >= 1 and limit to [1, MaxLimit].
func New(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset is the zero-based index of the first row on this page.
func (p Page) Offset() int {
	if p.Page-1 > maxInt/p.Limit {
		return maxInt
	}
	return (p.Page - 1) * p.Limit
}

// Pages returns ceil(total / limit).
func (p Page) Pages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

func parseInt(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Out-of-range integers are still integers; clamp instead of rejecting.
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return 0, nil
			}
			return maxInt, nil
		}
		return 0, apperror.BadRequest(fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}

// Result is one page of items plus the numbers a client needs to navigate.
type Result[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewResult assembles a Result for items fetched with p out of total rows.
func NewResult[T any](items []T, p Page, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items: items,
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: p.Pages(total),
	}
}
