// Package tag implements the Tag repository using PostgreSQL.
// It also reads the dream_record_tag join table for explicit relationship
// loading.
package tag

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const (
	table     = "tag"
	joinTable = "dream_record_tag"
)

// TagWithDreamID is the batch result type for ListByDreamIDs.
// It embeds domain.Tag and adds DreamRecordID for grouping by the caller.
type TagWithDreamID struct {
	DreamRecordID int64
	domain.Tag
}

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new tag repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type rowWithDream struct {
	DreamRecordID int64  `db:"dream_record_id"`
	ID            int64  `db:"id"`
	Name          string `db:"name"`
}

func (r row) toDomain() domain.Tag {
	return domain.Tag{ID: r.ID, Name: r.Name}
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

// Create inserts a tag with a normalized name. A duplicate yields
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, name string) (*domain.Tag, error) {
	return r.insert(ctx, name, "RETURNING id, name")
}

// GetOrCreate returns the tag with the given name, creating it if needed.
// Safe under concurrent callers.
func (r *Repo) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	return r.insert(ctx, name, "ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id, name")
}

func (r *Repo) insert(ctx context.Context, name, suffix string) (*domain.Tag, error) {
	name = domain.NormalizeTagName(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}

	query := postgres.Builder().Insert(table).Columns("name").Values(name).Suffix(suffix)

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, name)
	}
	t := res.toDomain()
	return &t, nil
}

// GetByName returns the tag with the given (normalized) name.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	name = domain.NormalizeTagName(name)
	query := postgres.Builder().Select("id", "name").From(table).Where(squirrel.Eq{"name": name})

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, name)
	}
	t := res.toDomain()
	return &t, nil
}

// List returns all tags ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Tag, error) {
	query := postgres.Builder().Select("id", "name").From(table).OrderBy("name")

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, table, "list")
	}

	out := make([]domain.Tag, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Dream links
// ---------------------------------------------------------------------------

// ListByDreamID returns the tags of one dream ordered by name.
func (r *Repo) ListByDreamID(ctx context.Context, dreamID int64) ([]domain.Tag, error) {
	query := postgres.Builder().
		Select("t.id", "t.name").
		From(joinTable + " dt").
		Join(table + " t ON t.id = dt.tag_id").
		Where(squirrel.Eq{"dt.dream_record_id": dreamID}).
		OrderBy("t.name")

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, joinTable, dreamID)
	}

	out := make([]domain.Tag, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// ListByDreamIDs returns the tags of many dreams in one query, ordered by
// dream id then tag name. Used by batch loaders.
func (r *Repo) ListByDreamIDs(ctx context.Context, dreamIDs []int64) ([]TagWithDreamID, error) {
	if len(dreamIDs) == 0 {
		return []TagWithDreamID{}, nil
	}

	query := postgres.Builder().
		Select("dt.dream_record_id", "t.id", "t.name").
		From(joinTable + " dt").
		Join(table + " t ON t.id = dt.tag_id").
		Where(squirrel.Eq{"dt.dream_record_id": dreamIDs}).
		OrderBy("dt.dream_record_id", "t.name")

	rows, err := postgres.Select[rowWithDream](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, joinTable, dreamIDs)
	}

	out := make([]TagWithDreamID, len(rows))
	for i, r := range rows {
		out[i] = TagWithDreamID{
			DreamRecordID: r.DreamRecordID,
			Tag:           domain.Tag{ID: r.ID, Name: r.Name},
		}
	}
	return out, nil
}
