package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
)

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Builder returns a squirrel statement builder using $n placeholders.
func Builder() squirrel.StatementBuilderType {
	return builder
}

// Get runs the query and scans exactly one row into T.
// No rows surfaces as pgx.ErrNoRows; pass the error through MapError.
func Get[T any](ctx context.Context, q Querier, query squirrel.Sqlizer) (T, error) {
	var dst T

	sql, args, err := query.ToSql()
	if err != nil {
		return dst, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, q, &dst, sql, args...); err != nil {
		return dst, err
	}
	return dst, nil
}

// Select runs the query and scans all rows into a slice of T.
// An empty result is an empty, non-nil slice.
func Select[T any](ctx context.Context, q Querier, query squirrel.Sqlizer) ([]T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	dst := make([]T, 0)
	if err := pgxscan.Select(ctx, q, &dst, sql, args...); err != nil {
		return nil, err
	}
	if dst == nil {
		dst = make([]T, 0)
	}
	return dst, nil
}

// Exec runs a statement that returns no rows.
func Exec(ctx context.Context, q Querier, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build query: %w", err)
	}
	return q.Exec(ctx, sql, args...)
}
