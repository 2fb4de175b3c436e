package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fail("%v", err)
	}
}

func run() error {
	var (
		direction string
		steps     int
		dsn       string
	)

	flag.StringVar(&direction, "direction", "up", "migration direction: up|down|status")
	flag.IntVar(&steps, "steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: STOREFRONT_POSTGRES_DSN)")
	flag.Parse()

	dsn = resolveDSN(dsn)
	if dsn == "" {
		return fmt.Errorf("STOREFRONT_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "up":
		if err := store.MigrateUp(ctx, steps); err != nil {
			return fmt.Errorf("migrate up failed: %w", err)
		}
		return reportStatus(ctx, store, "migrate up ok")
	case "down":
		if steps <= 0 {
			steps = 1
		}
		if err := store.MigrateDown(ctx, steps); err != nil {
			return fmt.Errorf("migrate down failed: %w", err)
		}
		return reportStatus(ctx, store, "migrate down ok")
	case "status":
		return reportStatus(ctx, store, "migration status")
	default:
		return fmt.Errorf("unsupported direction: %s (use up|down|status)", direction)
	}
}

func resolveDSN(flagDSN string) string {
	if dsn := strings.TrimSpace(flagDSN); dsn != "" {
		return dsn
	}
	return strings.TrimSpace(os.Getenv("STOREFRONT_POSTGRES_DSN"))
}

func reportStatus(ctx context.Context, store *postgres.Store, prefix string) error {
	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status failed: %w", err)
	}
	fmt.Printf("%s: version=%d applied=%d\n", prefix, version, count)
	return nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
