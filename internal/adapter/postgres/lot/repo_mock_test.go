package lot

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"

	"github.com/callmeani/dream-marketplace/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestArchive_Mock_CallsProcedure(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	reason := "duplicate listing"
	mock.ExpectExec(regexp.QuoteMeta(archiveSQL)).
		WithArgs(int64(7), int64(3), &reason).
		WillReturnResult(pgxmock.NewResult("CALL", 0))

	if err := New(mock).Archive(context.Background(), 7, 3, reason); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestArchive_Mock_MapsProcedureErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want error
	}{
		{"55000", domain.ErrConflict},
		{"P0002", domain.ErrNotFound},
		{"23503", domain.ErrNotFound},
		{"42501", domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()

			mock := newMock(t)
			mock.ExpectExec(regexp.QuoteMeta(archiveSQL)).
				WithArgs(int64(7), int64(3), (*string)(nil)).
				WillReturnError(&pgconn.PgError{Code: tt.code})

			err := New(mock).Archive(context.Background(), 7, 3, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestArchive_Mock_ValidatesBeforeCall(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	err := New(mock).Archive(context.Background(), 7, 0, "reason")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database call: %v", err)
	}
}

func TestGetByID_Mock_NullPrice(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	submitted := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, dream_record_id, title, description, price, status, submitted_at, reviewed_at, moderation_reason FROM lot WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(5), (*int64)(nil), "Orphaned", (*string)(nil), decimal.NullDecimal{},
				"ARCHIVED", submitted, (*time.Time)(nil), (*string)(nil)))

	got, err := New(mock).GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Price != nil {
		t.Errorf("Price = %s, want nil", got.Price)
	}
	if got.DreamRecordID != nil {
		t.Errorf("DreamRecordID = %d, want nil", *got.DreamRecordID)
	}
	if got.Status != domain.LotStatusArchived {
		t.Errorf("Status = %s, want ARCHIVED", got.Status)
	}
}
