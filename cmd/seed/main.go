// Command seed fills the database with sample users and orders.
//
// Records go through the same import reconciler as POST /import/*, so seeded
// data obeys the same validation and duplicate rules.
//
//	seed -mode basic                    # two users, three orders; skipped if users exist
//	seed -mode fake -users 20 -orders 60 -seed 1234
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/sakif/order-desk/internal/config"
	"github.com/sakif/order-desk/internal/logging"
	"github.com/sakif/order-desk/internal/repository/sqlite"
	"github.com/sakif/order-desk/internal/service"
)

func main() {
	_ = godotenv.Load()

	var (
		modeFlag   = flag.String("mode", "basic", "Seed mode: basic or fake")
		dbFlag     = flag.String("db", "", "SQLite path (defaults to DB_PATH)")
		usersFlag  = flag.Int("users", 20, "Number of fake users (fake mode)")
		ordersFlag = flag.Int("orders", 60, "Number of fake orders (fake mode)")
		seedFlag   = flag.Uint64("seed", 1234, "Random seed (fake mode)")
		quietFlag  = flag.Bool("quiet", false, "Only show errors")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	dbPath := *dbFlag
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			fail(err)
		}
		dbPath = cfg.Database.Path
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			fail(err)
		}
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	s := &seeder{
		store:    db,
		importer: service.NewImporter(db, logging.Discard()),
	}

	ctx := context.Background()
	var rep report
	switch *modeFlag {
	case "basic":
		rep, err = s.basic(ctx)
	case "fake":
		rep, err = s.fake(ctx, *usersFlag, *ordersFlag, *seedFlag)
	default:
		err = fmt.Errorf("unknown mode %q (want basic or fake)", *modeFlag)
	}
	if err != nil {
		fail(err)
	}

	if !*quietFlag {
		rep.print(os.Stdout, dbPath)
	}
}

func fail(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(os.Stderr, "✗ ")
	fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
	os.Exit(1)
}
