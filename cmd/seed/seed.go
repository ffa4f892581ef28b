package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/sakif/order-desk/internal/model"
	"github.com/sakif/order-desk/internal/repository"
	"github.com/sakif/order-desk/internal/service"
)

// seeder writes fixtures through the importer.
type seeder struct {
	store    repository.Store
	importer *service.Importer
}

// report summarises one seeding run.
type report struct {
	Mode    string
	Skipped bool // basic mode found existing users and did nothing
	Users   service.ImportResult
	Orders  service.ImportResult
}

func (r report) print(w io.Writer, dbPath string) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan)

	if r.Skipped {
		yellow.Fprint(w, "! ")
		fmt.Fprintf(w, "users already exist in %s, skipping %s seed\n", dbPath, r.Mode)
		return
	}
	green.Fprint(w, "✓ ")
	fmt.Fprintf(w, "%s seed written to %s\n", r.Mode, dbPath)
	cyan.Fprintf(w, "  users:  created=%d skipped=%d\n", r.Users.Created, r.Users.Skipped)
	cyan.Fprintf(w, "  orders: created=%d skipped=%d\n", r.Orders.Created, r.Orders.Skipped)
}

// basic writes two users and three orders, once. An existing user of any
// kind means the database was already seeded.
func (s *seeder) basic(ctx context.Context) (report, error) {
	rep := report{Mode: "basic"}

	existing, _, err := s.store.ListUsers(ctx, repository.ListOptions{Limit: 1})
	if err != nil {
		return rep, err
	}
	if len(existing) > 0 {
		rep.Skipped = true
		return rep, nil
	}

	rep.Users, err = s.importer.ImportUsers(ctx, []any{
		map[string]any{"name": "Ada Lovelace", "email": "ada@example.com"},
		map[string]any{"name": "Alan Turing", "email": "alan@example.com"},
	})
	if err != nil {
		return rep, err
	}

	ids, err := s.userIDs(ctx)
	if err != nil {
		return rep, err
	}
	ada, alan := ids["ada@example.com"], ids["alan@example.com"]

	rep.Orders, err = s.importer.ImportOrders(ctx, []any{
		map[string]any{"user_id": ada, "product_name": "A5 notebook", "amount": "125.00"},
		map[string]any{"user_id": ada, "product_name": "HB pencil", "amount": "19.90"},
		map[string]any{"user_id": alan, "product_name": "30cm ruler", "amount": "57.50"},
	})
	return rep, err
}

// fake writes nUsers users and nOrders orders spread randomly across them.
// The same seed always produces the same records.
func (s *seeder) fake(ctx context.Context, nUsers, nOrders int, seed uint64) (report, error) {
	rep := report{Mode: "fake"}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var err error
	rep.Users, err = s.importer.ImportUsers(ctx, fakeUsers(rng, nUsers))
	if err != nil {
		return rep, err
	}

	ids, err := s.userIDs(ctx)
	if err != nil {
		return rep, err
	}
	pool := make([]int64, 0, len(ids))
	for _, id := range ids {
		pool = append(pool, id)
	}
	if len(pool) == 0 || nOrders <= 0 {
		return rep, nil
	}
	// Map iteration order is random; sort so the seed alone decides owners.
	slices.Sort(pool)

	rep.Orders, err = s.importer.ImportOrders(ctx, fakeOrders(rng, pool, nOrders))
	return rep, err
}

func (s *seeder) userIDs(ctx context.Context) (map[string]int64, error) {
	users, err := s.store.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(users))
	for _, u := range users {
		ids[u.Email] = u.ID
	}
	return ids, nil
}

var (
	firstNames = []string{"Ada", "Alan", "Grace", "Edsger", "Barbara", "Donald", "Margaret", "Ken", "Frances", "Dennis", "Radia", "John"}
	lastNames  = []string{"Lovelace", "Turing", "Hopper", "Dijkstra", "Liskov", "Knuth", "Hamilton", "Thompson", "Allen", "Ritchie", "Perlman", "Backus"}
	adjectives = []string{"Ergonomic", "Rustic", "Sleek", "Compact", "Durable", "Recycled", "Portable", "Handmade"}
	products   = []string{"Notebook", "Pencil", "Ruler", "Backpack", "Desk Lamp", "Stapler", "Mug", "Keyboard"}
)

// fakeUsers builds n user records with unique emails.
func fakeUsers(rng *rand.Rand, n int) []any {
	items := make([]any, 0, n)
	for i := range n {
		first := firstNames[rng.IntN(len(firstNames))]
		last := lastNames[rng.IntN(len(lastNames))]
		items = append(items, map[string]any{
			"name":  first + " " + last,
			"email": fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
		})
	}
	return items
}

// fakeOrders builds n order records owned by users drawn from ids, with
// amounts between 5.00 and 200.00.
func fakeOrders(rng *rand.Rand, ids []int64, n int) []any {
	items := make([]any, 0, n)
	for range n {
		cents := 500 + rng.Int64N(19501)
		items = append(items, map[string]any{
			"user_id":      ids[rng.IntN(len(ids))],
			"product_name": adjectives[rng.IntN(len(adjectives))] + " " + products[rng.IntN(len(products))],
			"amount":       decimal.New(cents, -model.AmountScale).StringFixed(model.AmountScale),
		})
	}
	return items
}
