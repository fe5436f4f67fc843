package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhpv/product-events/internal/apperr"
)

type fakeDB struct {
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f.execFunc(ctx, sql, args...)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return f.queryFunc(ctx, sql, args...)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.queryRowFunc(ctx, sql, args...)
}

// fakeRows replays canned row values through the pgx.Rows surface the
// repository consumes (Next/Scan/Err/Close).
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(dest, r.rows[r.idx-1])
}

type fakeRow struct {
	values []any
	err    error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(dest, r.values)
}

func scanInto(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *int64:
			*d = values[i].(int64)
		case *string:
			*d = values[i].(string)
		case *time.Time:
			*d = values[i].(time.Time)
		case *pgtype.Numeric:
			*d = values[i].(pgtype.Numeric)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func numeric(t *testing.T, value string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	require.NoError(t, n.Scan(value))
	return n
}

func TestCreateProduct(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	var gotArgs []any
	repo := NewProductRepository(&fakeDB{
		queryRowFunc: func(_ context.Context, _ string, args ...any) pgx.Row {
			gotArgs = args
			return &fakeRow{values: []any{int64(42), "Desk lamp", numeric(t, "49.99"), createdAt}}
		},
	})

	product, err := repo.Create(context.Background(), "Desk lamp", 49.99)
	require.NoError(t, err)

	assert.Equal(t, int64(42), product.ID)
	assert.Equal(t, "Desk lamp", product.Name)
	assert.Equal(t, 49.99, product.Price)
	assert.Equal(t, createdAt, product.CreatedAt)

	require.Len(t, gotArgs, 2)
	assert.Equal(t, "Desk lamp", gotArgs[0])
	assert.IsType(t, pgtype.Numeric{}, gotArgs[1])
}

func TestDeleteProduct(t *testing.T) {
	t.Run("existing row", func(t *testing.T) {
		var gotArgs []any
		repo := NewProductRepository(&fakeDB{
			execFunc: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
				gotArgs = args
				return pgconn.NewCommandTag("DELETE 1"), nil
			},
		})

		require.NoError(t, repo.Delete(context.Background(), 42))
		assert.Equal(t, []any{int64(42)}, gotArgs)
	})

	t.Run("no row matched", func(t *testing.T) {
		repo := NewProductRepository(&fakeDB{
			execFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("DELETE 0"), nil
			},
		})

		err := repo.Delete(context.Background(), 999)
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})

	t.Run("exec error", func(t *testing.T) {
		repo := NewProductRepository(&fakeDB{
			execFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("connection refused")
			},
		})

		err := repo.Delete(context.Background(), 42)
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestListProducts(t *testing.T) {
	t.Run("populated page", func(t *testing.T) {
		createdAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
		var gotArgs []any
		repo := NewProductRepository(&fakeDB{
			queryFunc: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
				gotArgs = args
				return &fakeRows{rows: [][]any{
					{int64(2), "Desk lamp", numeric(t, "49.99"), createdAt, int64(7)},
					{int64(1), "Notebook", numeric(t, "5.00"), createdAt, int64(7)},
				}}, nil
			},
		})

		products, total, err := repo.List(context.Background(), 10, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(7), total)
		assert.Equal(t, []any{10, 0}, gotArgs)
		require.Len(t, products, 2)
		assert.Equal(t, int64(2), products[0].ID)
		assert.Equal(t, 49.99, products[0].Price)
		assert.Equal(t, int64(1), products[1].ID)
		assert.Equal(t, 5.0, products[1].Price)
	})

	// The windowed count comes from the selected rows, so a page past
	// the last row reports total 0 rather than failing.
	t.Run("offset beyond last row", func(t *testing.T) {
		repo := NewProductRepository(&fakeDB{
			queryFunc: func(context.Context, string, ...any) (pgx.Rows, error) {
				return &fakeRows{}, nil
			},
		})

		products, total, err := repo.List(context.Background(), 10, 1000)
		require.NoError(t, err)

		assert.NotNil(t, products)
		assert.Empty(t, products)
		assert.Zero(t, total)
	})

	t.Run("query error", func(t *testing.T) {
		repo := NewProductRepository(&fakeDB{
			queryFunc: func(context.Context, string, ...any) (pgx.Rows, error) {
				return nil, errors.New("connection refused")
			},
		})

		_, _, err := repo.List(context.Background(), 10, 0)
		assert.Error(t, err)
	})

	t.Run("iteration error", func(t *testing.T) {
		repo := NewProductRepository(&fakeDB{
			queryFunc: func(context.Context, string, ...any) (pgx.Rows, error) {
				return &fakeRows{err: errors.New("broken pipe")}, nil
			},
		})

		_, _, err := repo.List(context.Background(), 10, 0)
		assert.Error(t, err)
	})
}
