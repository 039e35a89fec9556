// Package category implements the Category repository using PostgreSQL.
package category

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const table = "category"

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new category repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func (r row) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name}
}

func toDomain(rows []row) []domain.Category {
	out := make([]domain.Category, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}

// Create inserts a category. A duplicate name yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}

	query := postgres.Builder().
		Insert(table).
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name")

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, name)
	}
	c := res.toDomain()
	return &c, nil
}

// GetByID returns a category by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := postgres.Builder().Select("id", "name").From(table).Where(squirrel.Eq{"id": id})

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, id)
	}
	c := res.toDomain()
	return &c, nil
}

// GetByIDs returns the categories with the given ids, in no particular order.
// Missing ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}

	query := postgres.Builder().Select("id", "name").From(table).Where(squirrel.Eq{"id": ids})

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, ids)
	}
	return toDomain(rows), nil
}

// List returns all categories ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Category, error) {
	query := postgres.Builder().Select("id", "name").From(table).OrderBy("name")

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, "list")
	}
	return toDomain(rows), nil
}
