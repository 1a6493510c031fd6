package store

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sig-0/kpremium/cmd/env"
	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/file"
	"github.com/sig-0/kpremium/storage/memory"
	"github.com/sig-0/kpremium/storage/sql"
	"github.com/sig-0/kpremium/storage/sqlite"
)

// Storage kinds selectable from the command line
const (
	KindJSON   = "json"
	KindMemory = "memory"
	KindSQLite = "sqlite"
	KindSQL    = "sql"
)

const DefaultSQLiteDSN = "data/btc_premium.db"

var ErrUnknownKind = errors.New("unknown storage kind")

// Options selects and locates the dataset storage
type Options struct {
	Kind      string
	Path      string // JSON dataset path
	SQLiteDSN string
}

// RegisterFlags registers the storage selection flags
func RegisterFlags(fs *flag.FlagSet, opts *Options) {
	fs.StringVar(
		&opts.Kind,
		"store",
		KindJSON,
		"the dataset storage (json, sqlite, sql, memory)",
	)

	fs.StringVar(
		&opts.Path,
		"path",
		"",
		"the JSON dataset path (overrides the configuration)",
	)

	fs.StringVar(
		&opts.SQLiteDSN,
		"sqlite-dsn",
		DefaultSQLiteDSN,
		"the SQLite database path",
	)
}

// CloseFn releases the storage resources
type CloseFn func()

// Open opens the storage selected by the options.
// The sql kind reads its connection string from the environment
func Open(ctx context.Context, opts Options) (storage.Storage, CloseFn, error) {
	noop := func() {}

	switch opts.Kind {
	case KindJSON, "":
		return file.NewStorage(opts.Path), noop, nil
	case KindMemory:
		return memory.NewStorage(), noop, nil
	case KindSQLite:
		if err := ensureDir(opts.SQLiteDSN); err != nil {
			return nil, nil, err
		}

		s, err := sqlite.Open(opts.SQLiteDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open sqlite DB: %w", err)
		}

		return s, func() { _ = s.Close() }, nil
	case KindSQL:
		pool, err := connect(ctx)
		if err != nil {
			return nil, nil, err
		}

		return sql.NewStorage(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}

// ensureDir creates the directory of a file-backed SQLite DSN
func ensureDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return fmt.Errorf("unable to create DB directory: %w", err)
	}

	return nil
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := os.Getenv(env.Var(env.DBURLSuffix))
	if dsn == "" {
		return nil, fmt.Errorf("missing %s", env.Var(env.DBURLSuffix))
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open DB connection: %w", err)
	}

	// Check DB reachability
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("unable to reach DB (ping): %w", err)
	}

	return pool, nil
}
