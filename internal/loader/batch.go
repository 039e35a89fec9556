package loader

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/callmeani/dream-marketplace/internal/domain"
)

// ---------------------------------------------------------------------------
// Tags by DreamID
// ---------------------------------------------------------------------------

func newTagsBatchFn(repo tagRepo) dataloader.BatchFunc[int64, []domain.Tag] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[[]domain.Tag] {
		rows, err := repo.ListByDreamIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.Tag](len(keys), err)
		}

		grouped := make(map[int64][]domain.Tag, len(keys))
		for _, r := range rows {
			grouped[r.DreamRecordID] = append(grouped[r.DreamRecordID], r.Tag)
		}

		return mapResults(keys, grouped, emptySlice[domain.Tag])
	}
}

// ---------------------------------------------------------------------------
// Category by ID (nullable)
// ---------------------------------------------------------------------------

func newCategoryBatchFn(repo categoryRepo) dataloader.BatchFunc[int64, *domain.Category] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*domain.Category] {
		rows, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Category](len(keys), err)
		}

		byID := make(map[int64]*domain.Category, len(rows))
		for i := range rows {
			c := rows[i]
			byID[c.ID] = &c
		}

		return mapResults(keys, byID, nilValue[*domain.Category])
	}
}

// ---------------------------------------------------------------------------
// Visualization by ID (nullable)
// ---------------------------------------------------------------------------

func newVisualizationBatchFn(repo visualizationRepo) dataloader.BatchFunc[int64, *domain.Visualization] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[*domain.Visualization] {
		rows, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Visualization](len(keys), err)
		}

		byID := make(map[int64]*domain.Visualization, len(rows))
		for i := range rows {
			v := rows[i]
			byID[v.ID] = &v
		}

		return mapResults(keys, byID, nilValue[*domain.Visualization])
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults returns a slice of error results for all keys.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []int64, grouped map[int64]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// emptySlice returns a non-nil empty slice.
func emptySlice[T any]() []T {
	return []T{}
}

func nilValue[T any]() T {
	var zero T
	return zero
}
