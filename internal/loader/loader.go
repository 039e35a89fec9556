// Package loader provides per-request DataLoaders that batch the lookups a
// dream listing fans out into (tags, category, visualization) into one SQL
// call per kind. Loaders call repositories directly.
package loader

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/tag"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// ---------------------------------------------------------------------------
// Repository interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type tagRepo interface {
	ListByDreamIDs(ctx context.Context, dreamIDs []int64) ([]tag.TagWithDreamID, error)
}

type categoryRepo interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Category, error)
}

type visualizationRepo interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Visualization, error)
}

// Repos holds the repositories required by the loaders.
type Repos struct {
	Tag           tagRepo
	Category      categoryRepo
	Visualization visualizationRepo
}

// ---------------------------------------------------------------------------
// Loaders
// ---------------------------------------------------------------------------

// Loaders contains the per-request DataLoaders. Create one set per request
// or unit of work: results are cached for the loader's lifetime.
type Loaders struct {
	TagsByDreamID     *dataloader.Loader[int64, []domain.Tag]
	CategoryByID      *dataloader.Loader[int64, *domain.Category]
	VisualizationByID *dataloader.Loader[int64, *domain.Visualization]
}

// New creates a new set of loaders backed by the given repositories.
func New(repos *Repos) *Loaders {
	return &Loaders{
		TagsByDreamID:     newLoader(newTagsBatchFn(repos.Tag)),
		CategoryByID:      newLoader(newCategoryBatchFn(repos.Category)),
		VisualizationByID: newLoader(newVisualizationBatchFn(repos.Visualization)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[int64, V]) *dataloader.Loader[int64, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[int64, V](wait),
		dataloader.WithBatchCapacity[int64, V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "loaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present; that is a wiring bug, not a runtime condition.
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("loader: loaders not found in context")
	}
	return l
}
