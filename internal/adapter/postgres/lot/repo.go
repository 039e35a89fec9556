// Package lot implements the Lot repository using PostgreSQL, including the
// moderator archival workflow backed by the proc_archive_lot procedure.
package lot

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const (
	table  = "lot"
	entity = "lot"
)

var columns = []string{
	"id", "dream_record_id", "title", "description", "price",
	"status", "submitted_at", "reviewed_at", "moderation_reason",
}

// archiveSQL invokes the stored procedure. The procedure locks the lot row,
// so concurrent archivals of one lot serialize and only the first succeeds.
const archiveSQL = `CALL proc_archive_lot($1, $2, $3)`

// Repo provides lot persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new lot repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID               int64               `db:"id"`
	DreamRecordID    *int64              `db:"dream_record_id"`
	Title            string              `db:"title"`
	Description      *string             `db:"description"`
	Price            decimal.NullDecimal `db:"price"`
	Status           string              `db:"status"`
	SubmittedAt      time.Time           `db:"submitted_at"`
	ReviewedAt       *time.Time          `db:"reviewed_at"`
	ModerationReason *string             `db:"moderation_reason"`
}

func (r row) toDomain() *domain.Lot {
	l := &domain.Lot{
		ID:               r.ID,
		DreamRecordID:    r.DreamRecordID,
		Title:            r.Title,
		Description:      r.Description,
		Status:           domain.LotStatus(r.Status),
		SubmittedAt:      r.SubmittedAt,
		ReviewedAt:       r.ReviewedAt,
		ModerationReason: r.ModerationReason,
	}
	if r.Price.Valid {
		price := r.Price.Decimal
		l.Price = &price
	}
	return l
}

func toDomainList(rows []row) []domain.Lot {
	out := make([]domain.Lot, len(rows))
	for i, r := range rows {
		out[i] = *r.toDomain()
	}
	return out
}

func nullPrice(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a lot by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Lot, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return res.toDomain(), nil
}

// ListByStatus returns lots in the given status, most recently submitted first.
func (r *Repo) ListByStatus(ctx context.Context, status domain.LotStatus, limit, offset int) ([]domain.Lot, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": string(status)}).
		OrderBy("submitted_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, status)
	}
	return toDomainList(rows), nil
}

// ListByDreamID returns every lot derived from the dream, oldest first.
func (r *Repo) ListByDreamID(ctx context.Context, dreamID int64) ([]domain.Lot, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"dream_record_id": dreamID}).
		OrderBy("submitted_at", "id")

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, dreamID)
	}
	return toDomainList(rows), nil
}

// ListBySeller returns the lots whose dream belongs to userID, most recently
// submitted first. Lots detached from a deleted dream have no seller and are
// never returned.
func (r *Repo) ListBySeller(ctx context.Context, userID int64) ([]domain.Lot, error) {
	qualified := make([]string, len(columns))
	for i, c := range columns {
		qualified[i] = "l." + c
	}

	query := postgres.Builder().
		Select(qualified...).
		From(table + " l").
		Join("dream_record d ON d.id = l.dream_record_id").
		Where(squirrel.Eq{"d.user_id": userID}).
		OrderBy("l.submitted_at DESC", "l.id DESC")

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, userID)
	}
	return toDomainList(rows), nil
}

// CountByStatus returns the number of lots in the given status.
func (r *Repo) CountByStatus(ctx context.Context, status domain.LotStatus) (int, error) {
	query := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(squirrel.Eq{"status": string(status)})

	n, err := postgres.Get[int](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return 0, postgres.MapError(err, entity, status)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create inserts a lot. Status defaults to PENDING and submitted_at is
// stamped here.
func (r *Repo) Create(ctx context.Context, l domain.Lot) (*domain.Lot, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.Status == "" {
		l.Status = domain.LotStatusPending
	}

	query := postgres.Builder().
		Insert(table).
		Columns("dream_record_id", "title", "description", "price", "status", "submitted_at").
		Values(l.DreamRecordID, strings.TrimSpace(l.Title), l.Description,
			nullPrice(l.Price), string(l.Status), postgres.Now()).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, l.Title)
	}
	return res.toDomain(), nil
}

// Update applies seller-editable fields. An empty params returns the lot unchanged.
func (r *Repo) Update(ctx context.Context, id int64, params domain.LotUpdateParams) (*domain.Lot, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	set := map[string]any{}
	if params.Title != nil {
		set["title"] = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Price != nil {
		set["price"] = nullPrice(params.Price)
	}

	query := postgres.Builder().
		Update(table).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return res.toDomain(), nil
}

// Delete removes a lot. A lot referenced by moderation history or a sale
// yields domain.ErrConflict.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query := postgres.Builder().Delete(table).Where(squirrel.Eq{"id": id})

	tag, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return postgres.MapDeleteError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, entity, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Moderation
// ---------------------------------------------------------------------------

// Archive moves the lot to ARCHIVED and appends an ARCHIVE entry to
// moderation_log in a single procedure call. Both writes commit or neither.
//
// Errors:
//   - domain.ErrValidation: non-positive ids
//   - domain.ErrNotFound: lot or admin does not exist
//   - domain.ErrForbidden: adminID is not an ADMIN
//   - domain.ErrConflict: lot is not PENDING or APPROVED (including already archived)
func (r *Repo) Archive(ctx context.Context, lotID, adminID int64, reason string) error {
	req := domain.ArchiveRequest{LotID: lotID, AdminID: adminID, Reason: reason}
	if err := req.Validate(); err != nil {
		return err
	}

	var reasonArg *string
	if reason != "" {
		reasonArg = &reason
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, archiveSQL, lotID, adminID, reasonArg); err != nil {
		return postgres.MapError(err, entity, lotID)
	}
	return nil
}
