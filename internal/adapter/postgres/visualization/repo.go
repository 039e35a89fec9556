// Package visualization implements the Visualization repository using PostgreSQL.
package visualization

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const table = "visualization"

var columns = []string{
	"id", "prompt", "generator", "file_path", "mime",
	"width", "height", "duration", "status", "created_at",
}

// Repo provides visualization persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new visualization repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID        int64     `db:"id"`
	Prompt    *string   `db:"prompt"`
	Generator *string   `db:"generator"`
	FilePath  string    `db:"file_path"`
	Mime      *string   `db:"mime"`
	Width     *int      `db:"width"`
	Height    *int      `db:"height"`
	Duration  *int      `db:"duration"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() domain.Visualization {
	return domain.Visualization{
		ID:        r.ID,
		Prompt:    r.Prompt,
		Generator: r.Generator,
		FilePath:  r.FilePath,
		Mime:      r.Mime,
		Width:     r.Width,
		Height:    r.Height,
		Duration:  r.Duration,
		Status:    domain.VisualizationStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

// Create inserts a visualization. Status defaults to PENDING; created_at is
// stamped here.
func (r *Repo) Create(ctx context.Context, v domain.Visualization) (*domain.Visualization, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v.Status == "" {
		v.Status = domain.VisualizationStatusPending
	}

	query := postgres.Builder().
		Insert(table).
		Columns("prompt", "generator", "file_path", "mime", "width", "height", "duration", "status", "created_at").
		Values(v.Prompt, v.Generator, v.FilePath, v.Mime, v.Width, v.Height, v.Duration,
			string(v.Status), postgres.Now()).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, v.FilePath)
	}
	out := res.toDomain()
	return &out, nil
}

// GetByID returns a visualization by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Visualization, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, id)
	}
	out := res.toDomain()
	return &out, nil
}

// GetByIDs returns the visualizations with the given ids. Missing ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Visualization, error) {
	if len(ids) == 0 {
		return []domain.Visualization{}, nil
	}

	query := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": ids})

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, ids)
	}

	out := make([]domain.Visualization, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// UpdateStatus moves a visualization to status and returns the updated row.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, status domain.VisualizationStatus) (*domain.Visualization, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown status")
	}

	query := postgres.Builder().
		Update(table).
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, id)
	}
	out := res.toDomain()
	return &out, nil
}
