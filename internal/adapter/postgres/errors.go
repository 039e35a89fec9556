package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/callmeani/dream-marketplace/internal/domain"
)

// SQLSTATE codes mapped to domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
	codeRestrictViolation   = "23001"
	codeNoDataFound         = "P0002"
	codeNotInPrerequisite   = "55000"
	codeInsufficientPriv    = "42501"
)

// MapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
// id is formatted with %v so callers may pass an int64 key or a natural key.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %v: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrAlreadyExists)
		case codeForeignKeyViolation, codeNoDataFound:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
		case codeCheckViolation, codeNumericOutOfRange:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrValidation)
		case codeNotInPrerequisite, codeRestrictViolation:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrConflict)
		case codeInsufficientPriv:
			return fmt.Errorf("%s %v: %w", entity, id, domain.ErrForbidden)
		}
	}

	return fmt.Errorf("%s %v: %w", entity, id, err)
}

// MapDeleteError is MapError for DELETE statements: a foreign key violation
// means the row is still referenced, which is a conflict rather than a
// missing parent.
func MapDeleteError(err error, entity string, id any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrConflict)
	}
	return MapError(err, entity, id)
}
