package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Register sqlite driver

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

//go:embed migrations/001_initial.sql
var migration string

// Storage is a SQLite-backed dataset, one row per date
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// In-memory databases are per-connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err = db.Exec(pragma); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("unable to exec %s: %w", pragma, err)
		}
	}

	if _, err = db.Exec(migration); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("unable to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Load(ctx context.Context) ([]*types.DailyEntry, error) {
	const query = `SELECT date, premiums, meta FROM daily_entries ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to load entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*types.DailyEntry, 0)

	for rows.Next() {
		var (
			date     string
			premiums string
			meta     sql.NullString
		)

		if err = rows.Scan(&date, &premiums, &meta); err != nil {
			return nil, fmt.Errorf("unable to scan entry: %w", err)
		}

		entry, err := storage.DecodeColumns(date, []byte(premiums), []byte(meta.String))
		if err != nil {
			return nil, err
		}

		out = append(out, entry)
	}

	return out, rows.Err()
}

func (s *Storage) Upsert(ctx context.Context, entry *types.DailyEntry) error {
	const query = `INSERT INTO daily_entries (date, premiums, meta, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(date) DO UPDATE SET
			premiums = excluded.premiums,
			meta = excluded.meta,
			updated_at = excluded.updated_at`

	if err := storage.Validate(entry); err != nil {
		return err
	}

	premiums, meta, err := storage.EncodeColumns(entry)
	if err != nil {
		return err
	}

	metaArg := sql.NullString{
		String: string(meta),
		Valid:  meta != nil,
	}

	if _, err = s.db.ExecContext(ctx, query, entry.Date, string(premiums), metaArg); err != nil {
		return fmt.Errorf("unable to save entry: %w", err)
	}

	return nil
}

func (s *Storage) EntryByDate(ctx context.Context, date string) (*types.DailyEntry, error) {
	const query = `SELECT premiums, meta FROM daily_entries WHERE date = ?`

	var (
		premiums string
		meta     sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, date).Scan(&premiums, &meta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil // valid case
		}

		return nil, fmt.Errorf("unable to fetch entry: %w", err)
	}

	return storage.DecodeColumns(date, []byte(premiums), []byte(meta.String))
}

func (s *Storage) ListVenues(ctx context.Context) ([]types.Venue, error) {
	const query = `SELECT DISTINCT je.key
		FROM daily_entries, json_each(daily_entries.premiums) AS je
		ORDER BY je.key ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch venues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]types.Venue, 0)

	for rows.Next() {
		var venue string

		if err = rows.Scan(&venue); err != nil {
			return nil, fmt.Errorf("unable to scan venue: %w", err)
		}

		out = append(out, types.Venue(venue))
	}

	return out, rows.Err()
}
