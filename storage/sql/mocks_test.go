package sql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type (
	execDelegate     func(context.Context, string, ...any) (pgconn.CommandTag, error)
	queryDelegate    func(context.Context, string, ...any) (pgx.Rows, error)
	queryRowDelegate func(context.Context, string, ...any) pgx.Row
)

type mockDB struct {
	execFn     execDelegate
	queryFn    queryDelegate
	queryRowFn queryRowDelegate
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, args...)
	}

	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}

	return &mockRows{}, nil
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}

	return &mockRow{err: pgx.ErrNoRows}
}

// mockRows replays fixed rows. Values are assigned to *string or *[]byte
// destinations, a nil []byte stands in for SQL NULL
type mockRows struct {
	err    error
	rows   [][]any
	cursor int

	closed bool
}

func (r *mockRows) Close() {
	r.closed = true
}

func (r *mockRows) Err() error {
	return r.err
}

func (r *mockRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("SELECT")
}

func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}

func (r *mockRows) Next() bool {
	if r.cursor >= len(r.rows) {
		return false
	}

	r.cursor++

	return true
}

func (r *mockRows) Scan(dest ...any) error {
	return scanInto(r.rows[r.cursor-1], dest)
}

func (r *mockRows) Values() ([]any, error) {
	return r.rows[r.cursor-1], nil
}

func (r *mockRows) RawValues() [][]byte {
	return nil
}

func (r *mockRows) Conn() *pgx.Conn {
	return nil
}

type mockRow struct {
	err    error
	values []any
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	return scanInto(r.values, dest)
}

func scanInto(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("expected %d destinations, got %d", len(values), len(dest))
	}

	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("column %d is not a string", i)
			}

			*d = s
		case *[]byte:
			switch b := v.(type) {
			case nil:
				*d = nil
			case []byte:
				*d = b
			case string:
				*d = []byte(b)
			default:
				return fmt.Errorf("column %d is not bytes", i)
			}
		default:
			return fmt.Errorf("unsupported destination %T", dest[i])
		}
	}

	return nil
}
