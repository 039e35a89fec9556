// Package dream implements the DreamRecord repository using PostgreSQL.
//
// Every list query returns newest dreams first (created_at DESC, id DESC)
// and an empty, non-nil slice when nothing matches. Ownership-scoped
// operations filter by user_id in SQL so a foreign dream is indistinguishable
// from a missing one.
package dream

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const (
	table  = "dream_record"
	entity = "dream_record"
)

var columns = []string{
	"id", "user_id", "category_id", "visualization_id",
	"title", "content", "privacy", "created_at", "updated_at",
}

// newestFirst is the ordering shared by every list query.
var newestFirst = []string{"created_at DESC", "id DESC"}

// Repo provides dream record persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new dream repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID              int64      `db:"id"`
	UserID          int64      `db:"user_id"`
	CategoryID      *int64     `db:"category_id"`
	VisualizationID *int64     `db:"visualization_id"`
	Title           string     `db:"title"`
	Content         string     `db:"content"`
	Privacy         string     `db:"privacy"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.DreamRecord {
	return &domain.DreamRecord{
		ID:              r.ID,
		UserID:          r.UserID,
		CategoryID:      r.CategoryID,
		VisualizationID: r.VisualizationID,
		Title:           r.Title,
		Content:         r.Content,
		Privacy:         domain.Privacy(r.Privacy),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toDomainList(rows []row) []domain.DreamRecord {
	out := make([]domain.DreamRecord, len(rows))
	for i, r := range rows {
		out[i] = *r.toDomain()
	}
	return out
}

// ---------------------------------------------------------------------------
// Raw SQL for multi-table writes
// ---------------------------------------------------------------------------

// createSQL inserts the dream and its tag links in one statement, so a bad
// tag id leaves no dream behind.
const createSQL = `
WITH d AS (
    INSERT INTO dream_record (user_id, category_id, title, content, privacy, created_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, user_id, category_id, visualization_id, title, content, privacy, created_at, updated_at
), links AS (
    INSERT INTO dream_record_tag (dream_record_id, tag_id)
    SELECT d.id, t.tag_id FROM d, unnest($7::bigint[]) AS t(tag_id)
    ON CONFLICT DO NOTHING
)
SELECT id, user_id, category_id, visualization_id, title, content, privacy, created_at, updated_at
FROM d`

// setTagsSQL replaces the tag set of a dream in one statement.
const setTagsSQL = `
WITH removed AS (
    DELETE FROM dream_record_tag
    WHERE dream_record_id = $1 AND NOT (tag_id = ANY($2::bigint[]))
)
INSERT INTO dream_record_tag (dream_record_id, tag_id)
SELECT $1, t.tag_id FROM unnest($2::bigint[]) AS t(tag_id)
ON CONFLICT DO NOTHING`

// ---------------------------------------------------------------------------
// Query contract
// ---------------------------------------------------------------------------

// FindByUser returns every dream owned by userID, newest first.
func (r *Repo) FindByUser(ctx context.Context, userID int64) ([]domain.DreamRecord, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID}, userID)
}

// FindByPrivacy returns every dream with the given privacy, newest first.
func (r *Repo) FindByPrivacy(ctx context.Context, privacy domain.Privacy) ([]domain.DreamRecord, error) {
	return r.list(ctx, squirrel.Eq{"privacy": string(privacy)}, privacy)
}

// FindByCategoryID returns every dream in the category, newest first.
func (r *Repo) FindByCategoryID(ctx context.Context, categoryID int64) ([]domain.DreamRecord, error) {
	return r.list(ctx, squirrel.Eq{"category_id": categoryID}, categoryID)
}

// FindByIDAndUser returns the dream only if it exists and is owned by userID.
// A missing or foreign dream yields (nil, nil).
func (r *Repo) FindByIDAndUser(ctx context.Context, id, userID int64) (*domain.DreamRecord, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return res.toDomain(), nil
}

// FindPublicByTag returns PUBLIC dreams carrying the named tag, newest first.
// Both conditions are evaluated in SQL.
func (r *Repo) FindPublicByTag(ctx context.Context, tagName string) ([]domain.DreamRecord, error) {
	query := postgres.Builder().
		Select(qualified("d")...).
		From(table + " d").
		Join("dream_record_tag dt ON dt.dream_record_id = d.id").
		Join("tag t ON t.id = dt.tag_id").
		Where(squirrel.Eq{
			"t.name":    domain.NormalizeTagName(tagName),
			"d.privacy": string(domain.PrivacyPublic),
		}).
		OrderBy("d.created_at DESC", "d.id DESC")

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, tagName)
	}
	return toDomainList(rows), nil
}

func (r *Repo) list(ctx context.Context, where squirrel.Eq, key any) ([]domain.DreamRecord, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(where).
		OrderBy(newestFirst...)

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	return toDomainList(rows), nil
}

// ---------------------------------------------------------------------------
// CRUD
// ---------------------------------------------------------------------------

// GetByID returns a dream by primary key regardless of owner.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.DreamRecord, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return res.toDomain(), nil
}

// Create inserts a dream linked to tagIDs. Privacy defaults to PRIVATE and a
// zero CreatedAt is stamped with the current time; updated_at stays NULL
// until the first update.
func (r *Repo) Create(ctx context.Context, d domain.DreamRecord, tagIDs []int64) (*domain.DreamRecord, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Privacy == "" {
		d.Privacy = domain.PrivacyPrivate
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = postgres.Now()
	}

	var res row
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &res, createSQL,
		d.UserID, d.CategoryID, strings.TrimSpace(d.Title), d.Content, string(d.Privacy), d.CreatedAt,
		uniqueIDs(tagIDs),
	)
	if err != nil {
		return nil, postgres.MapError(err, entity, d.Title)
	}
	return res.toDomain(), nil
}

// Update applies params to the dream if it is owned by userID.
// A missing or foreign dream yields domain.ErrNotFound.
func (r *Repo) Update(ctx context.Context, id, userID int64, params domain.DreamUpdateParams) (*domain.DreamRecord, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.IsEmpty() {
		d, err := r.FindByIDAndUser(ctx, id, userID)
		if err == nil && d == nil {
			return nil, postgres.MapError(pgx.ErrNoRows, entity, id)
		}
		return d, err
	}

	set := map[string]any{}
	if params.Title != nil {
		set["title"] = strings.TrimSpace(*params.Title)
	}
	if params.Content != nil {
		set["content"] = *params.Content
	}
	if params.Privacy != nil {
		set["privacy"] = string(*params.Privacy)
	}
	if params.CategoryID != nil {
		set["category_id"] = *params.CategoryID
	}
	if params.ClearCategory {
		set["category_id"] = nil
	}

	query := postgres.Builder().
		Update(table).
		SetMap(set).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return res.toDomain(), nil
}

// SetTags replaces the dream's tags with tagIDs. An empty list removes all tags.
// Ownership is the caller's concern.
func (r *Repo) SetTags(ctx context.Context, id int64, tagIDs []int64) error {
	_, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, setTagsSQL, id, uniqueIDs(tagIDs))
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	return nil
}

// AttachVisualization links a visualization to the dream owned by userID.
// A visualization already used by another dream yields domain.ErrAlreadyExists.
func (r *Repo) AttachVisualization(ctx context.Context, id, userID, visualizationID int64) (*domain.DreamRecord, error) {
	query := postgres.Builder().
		Update(table).
		Set("visualization_id", visualizationID).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return res.toDomain(), nil
}

// Delete removes the dream owned by userID together with its tag links.
// Lots derived from it keep their history with dream_record_id cleared.
func (r *Repo) Delete(ctx context.Context, id, userID int64) error {
	query := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id, "user_id": userID})

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
// Helpers
// ---------------------------------------------------------------------------

// qualified prefixes every column with alias.
func qualified(alias string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// uniqueIDs returns a sorted, de-duplicated, non-nil copy of ids.
// Non-nil matters: a NULL array makes "tag_id = ANY($2)" NULL instead of false.
func uniqueIDs(ids []int64) []int64 {
	out := append(make([]int64, 0, len(ids)), ids...)
	slices.Sort(out)
	return slices.Compact(out)
}
