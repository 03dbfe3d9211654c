package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

const runTimeout = 30 * time.Second

const usage = `usage: migrate [flags] <command>

commands:
  up       apply pending migrations (default: all, limit with -steps)
  down     roll back applied migrations (default: 1, more with -steps)
  status   print current schema version

flags:
  -dsn      PostgreSQL DSN; falls back to STOREFRONT_POSTGRES_DSN
  -steps    how many migrations to apply or roll back
`

func main() {
	var (
		steps int
		dsn   string
	)

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.IntVar(&steps, "steps", 0, "how many migrations to apply or roll back")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN; falls back to STOREFRONT_POSTGRES_DSN")
	flag.Parse()

	command := strings.ToLower(flag.Arg(0))
	if command == "" {
		flag.Usage()
		os.Exit(2)
	}

	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("STOREFRONT_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("STOREFRONT_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := run(ctx, store, command, steps); err != nil {
		fail("%v", err)
	}
}

func run(ctx context.Context, store *postgres.Store, command string, steps int) error {
	switch command {
	case "up":
		if err := store.MigrateUp(ctx, steps); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		return printStatus(ctx, store, "migrate up ok")
	case "down":
		if err := store.MigrateDown(ctx, steps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		return printStatus(ctx, store, "migrate down ok")
	case "status":
		return printStatus(ctx, store, "migration status")
	default:
		return fmt.Errorf("unknown command %q (use up, down or status)", command)
	}
}

func printStatus(ctx context.Context, store *postgres.Store, prefix string) error {
	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	fmt.Printf("%s: version=%d applied=%d\n", prefix, version, count)
	return nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
