package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sig-0/kpremium/storage"
	"github.com/sig-0/kpremium/storage/types"
)

const (
	upsertEntryQuery = `INSERT INTO daily_entries (date, premiums, meta, updated_at)
VALUES ($1::date, $2::jsonb, $3::jsonb, now())
ON CONFLICT (date) DO UPDATE
SET premiums = EXCLUDED.premiums, meta = EXCLUDED.meta, updated_at = now()`

	loadEntriesQuery = `SELECT to_char(date, 'YYYY-MM-DD'), premiums, meta
FROM daily_entries
ORDER BY date ASC`

	entryByDateQuery = `SELECT to_char(date, 'YYYY-MM-DD'), premiums, meta
FROM daily_entries
WHERE date = $1::date`

	listVenuesQuery = `SELECT DISTINCT venue
FROM daily_entries, jsonb_object_keys(premiums) AS venue
ORDER BY venue ASC`
)

// DBTX is the subset of the pgx API used by the storage.
// It is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{
		db: db,
	}
}

func (s *Storage) Load(ctx context.Context) ([]*types.DailyEntry, error) {
	rows, err := s.db.Query(ctx, loadEntriesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to load entries: %w", err)
	}
	defer rows.Close()

	out := make([]*types.DailyEntry, 0)

	for rows.Next() {
		var (
			date           string
			premiums, meta []byte
		)

		if err = rows.Scan(&date, &premiums, &meta); err != nil {
			return nil, fmt.Errorf("unable to scan entry: %w", err)
		}

		entry, err := storage.DecodeColumns(date, premiums, meta)
		if err != nil {
			return nil, err
		}

		out = append(out, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to load entries: %w", err)
	}

	return out, nil
}

func (s *Storage) Upsert(ctx context.Context, entry *types.DailyEntry) error {
	if err := storage.Validate(entry); err != nil {
		return err
	}

	premiums, meta, err := storage.EncodeColumns(entry)
	if err != nil {
		return err
	}

	var metaArg *string

	if meta != nil {
		m := string(meta)
		metaArg = &m
	}

	if _, err = s.db.Exec(ctx, upsertEntryQuery, entry.Date, string(premiums), metaArg); err != nil {
		return fmt.Errorf("unable to save entry: %w", err)
	}

	return nil
}

func (s *Storage) EntryByDate(ctx context.Context, date string) (*types.DailyEntry, error) {
	var (
		key            string
		premiums, meta []byte
	)

	err := s.db.QueryRow(ctx, entryByDateQuery, date).Scan(&key, &premiums, &meta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // valid case
		}

		return nil, fmt.Errorf("unable to fetch entry: %w", err)
	}

	return storage.DecodeColumns(key, premiums, meta)
}

func (s *Storage) ListVenues(ctx context.Context) ([]types.Venue, error) {
	rows, err := s.db.Query(ctx, listVenuesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch venues: %w", err)
	}
	defer rows.Close()

	out := make([]types.Venue, 0)

	for rows.Next() {
		var venue string

		if err = rows.Scan(&venue); err != nil {
			return nil, fmt.Errorf("unable to scan venue: %w", err)
		}

		out = append(out, types.Venue(venue))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch venues: %w", err)
	}

	return out, nil
}
