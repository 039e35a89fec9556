// Package moderationlog implements read access to the moderation audit trail.
// Rows are written only by the archival procedure and are never updated or
// deleted; a trigger rejects both.
package moderationlog

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const (
	table  = "moderation_log"
	entity = "moderation_log"
)

var columns = []string{"id", "admin_id", "lot_id", "action", "reason", "created_at"}

// Repo provides moderation log reads backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new moderation log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID        int64     `db:"id"`
	AdminID   int64     `db:"admin_id"`
	LotID     int64     `db:"lot_id"`
	Action    string    `db:"action"`
	Reason    *string   `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() domain.ModerationLog {
	return domain.ModerationLog{
		ID:        r.ID,
		AdminID:   r.AdminID,
		LotID:     r.LotID,
		Action:    domain.ModerationAction(r.Action),
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt,
	}
}

// ListByLot returns the full history of a lot, oldest first.
func (r *Repo) ListByLot(ctx context.Context, lotID int64) ([]domain.ModerationLog, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"lot_id": lotID}).
		OrderBy("created_at", "id")

	return r.list(ctx, query, lotID)
}

// ListByAdmin returns actions taken by an admin, newest first, with pagination.
func (r *Repo) ListByAdmin(ctx context.Context, adminID int64, limit, offset int) ([]domain.ModerationLog, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"admin_id": adminID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	return r.list(ctx, query, adminID)
}

// CountByLot returns the number of moderation entries for a lot.
func (r *Repo) CountByLot(ctx context.Context, lotID int64) (int, error) {
	query := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(squirrel.Eq{"lot_id": lotID})

	n, err := postgres.Get[int](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return 0, postgres.MapError(err, entity, lotID)
	}
	return n, nil
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, key int64) ([]domain.ModerationLog, error) {
	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}

	out := make([]domain.ModerationLog, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
