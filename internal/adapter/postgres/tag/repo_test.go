package tag_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/tag"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/testhelper"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

func newRepo(t *testing.T) (*tag.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return tag.New(pool), pool
}

func TestRepo_Create_Normalizes(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	suffix := testhelper.UniqueSuffix()
	created, err := repo.Create(ctx, "  Lucid-"+suffix+" ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "lucid-"+suffix {
		t.Errorf("Name = %q, want normalized", created.Name)
	}

	if _, err := repo.Create(ctx, "LUCID-"+suffix); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate Create: got %v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByName(ctx, "Lucid-"+suffix)
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByName ID = %d, want %d", got.ID, created.ID)
	}
}

func TestRepo_GetOrCreate_Concurrent(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	name := "flying-" + testhelper.UniqueSuffix()

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tg, err := repo.GetOrCreate(ctx, name)
			errs[i] = err
			if err == nil {
				ids[i] = tg.ID
			}
		}()
	}
	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Fatalf("worker %d got id %d, worker 0 got %d", i, ids[i], ids[0])
		}
	}
}

func TestRepo_GetByName_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	if _, err := repo.GetByName(context.Background(), "absent-"+testhelper.UniqueSuffix()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_ListByDreamIDs(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	t1 := testhelper.SeedTag(t, pool)
	t2 := testhelper.SeedTag(t, pool)
	d1 := testhelper.SeedDream(t, pool, owner.ID, testhelper.WithTags(t1.ID, t2.ID))
	d2 := testhelper.SeedDream(t, pool, owner.ID, testhelper.WithTags(t2.ID))
	d3 := testhelper.SeedDream(t, pool, owner.ID)

	got, err := repo.ListByDreamIDs(ctx, []int64{d1.ID, d2.ID, d3.ID})
	if err != nil {
		t.Fatalf("ListByDreamIDs: %v", err)
	}

	counts := map[int64]int{}
	for _, tg := range got {
		counts[tg.DreamRecordID]++
	}
	if counts[d1.ID] != 2 || counts[d2.ID] != 1 || counts[d3.ID] != 0 {
		t.Errorf("per-dream tag counts = %v", counts)
	}

	single, err := repo.ListByDreamID(ctx, d1.ID)
	if err != nil {
		t.Fatalf("ListByDreamID: %v", err)
	}
	if len(single) != 2 {
		t.Errorf("ListByDreamID returned %d tags, want 2", len(single))
	}

	none, err := repo.ListByDreamIDs(ctx, nil)
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("ListByDreamIDs(nil) = %v, %v; want empty slice", none, err)
	}
}
