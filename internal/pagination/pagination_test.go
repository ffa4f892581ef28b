package pagination

import (
	"errors"
	"net/url"
	"testing"

	"github.com/sakif/order-desk/internal/apperror"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{name: "defaults when absent", wantPage: 1, wantLimit: 10},
		{name: "explicit values", page: "3", limit: "25", wantPage: 3, wantLimit: 25},
		{name: "page zero clamps to one", page: "0", limit: "5", wantPage: 1, wantLimit: 5},
		{name: "negative page clamps to one", page: "-4", wantPage: 1, wantLimit: 10},
		{name: "limit above max is capped", limit: "1000", wantPage: 1, wantLimit: 100},
		{name: "limit zero raised to one", limit: "0", wantPage: 1, wantLimit: 1},
		{name: "negative limit raised to one", limit: "-9", wantPage: 1, wantLimit: 1},
		{name: "huge page is still an integer", page: "99999999999999999999", wantPage: maxInt, wantLimit: 10},
		{name: "surrounding spaces", page: " 2 ", limit: " 7 ", wantPage: 2, wantLimit: 7},
		{name: "non-integer page", page: "abc", wantErr: true},
		{name: "decimal limit", limit: "2.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.page, tt.limit)
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrBadRequest) {
					t.Fatalf("Parse() error = %v, want ErrBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error = %v", err)
			}
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("Parse() = %+v, want page=%d limit=%d", got, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	for _, limit := range []int{-1000, -1, 0, 1, 50, 100, 101, 1 << 30} {
		for _, page := range []int{-5, 0, 1, 9} {
			p := New(page, limit)
			if p.Limit < 1 || p.Limit > MaxLimit {
				t.Errorf("New(%d, %d).Limit = %d, out of [1,%d]", page, limit, p.Limit, MaxLimit)
			}
			if p.Page < 1 {
				t.Errorf("New(%d, %d).Page = %d, want >= 1", page, limit, p.Page)
			}
		}
	}
}

func TestOffsetAndPages(t *testing.T) {
	p := New(3, 20)
	if got := p.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}

	tests := []struct {
		total int
		limit int
		want  int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 250, limit: 100, want: 3},
	}
	for _, tt := range tests {
		if got := New(1, tt.limit).Pages(tt.total); got != tt.want {
			t.Errorf("Pages(total=%d, limit=%d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{"page": {"2"}, "limit": {"5"}}
	p, err := FromQuery(q)
	if err != nil {
		t.Fatalf("FromQuery() error = %v", err)
	}
	if p.Page != 2 || p.Limit != 5 {
		t.Errorf("FromQuery() = %+v, want page=2 limit=5", p)
	}
}

func TestNewResult(t *testing.T) {
	r := NewResult[string](nil, New(1, 10), 0)
	if r.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
	if r.Pages != 0 {
		t.Errorf("Pages = %d, want 0", r.Pages)
	}

	r = NewResult([]string{"a", "b"}, New(2, 2), 5)
	if r.Pages != 3 || r.Page != 2 || r.Limit != 2 || r.Total != 5 {
		t.Errorf("NewResult() = %+v", r)
	}
}
