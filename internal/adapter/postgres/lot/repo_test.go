package lot_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/lot"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/testhelper"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) (*lot.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return lot.New(pool), pool
}

type logRow struct {
	adminID int64
	action  string
	reason  *string
}

func moderationLogs(t *testing.T, pool *pgxpool.Pool, lotID int64) []logRow {
	t.Helper()

	rows, err := pool.Query(context.Background(),
		`SELECT admin_id, action, reason FROM moderation_log WHERE lot_id = $1 ORDER BY id`, lotID)
	if err != nil {
		t.Fatalf("query moderation_log: %v", err)
	}
	defer rows.Close()

	var out []logRow
	for rows.Next() {
		var r logRow
		if err := rows.Scan(&r.adminID, &r.action, &r.reason); err != nil {
			t.Fatalf("scan moderation_log: %v", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows moderation_log: %v", err)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// CRUD
// ---------------------------------------------------------------------------

func TestRepo_Create_Defaults(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seller := testhelper.SeedUser(t, pool)
	d := testhelper.SeedDream(t, pool, seller.ID)
	price := decimal.RequireFromString("120.00")

	got, err := repo.Create(ctx, domain.Lot{
		DreamRecordID: &d.ID,
		Title:         "  Flying over glass  ",
		Description:   ptr("Vivid and short."),
		Price:         &price,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got.ID == 0 {
		t.Error("ID not assigned")
	}
	if got.Status != domain.LotStatusPending {
		t.Errorf("Status = %q, want PENDING", got.Status)
	}
	if got.Title != "Flying over glass" {
		t.Errorf("Title = %q, want trimmed", got.Title)
	}
	if got.Price == nil || !got.Price.Equal(price) {
		t.Errorf("Price = %v, want %s", got.Price, price)
	}
	if got.SubmittedAt.IsZero() {
		t.Error("SubmittedAt not stamped")
	}
	if got.ReviewedAt != nil || got.ModerationReason != nil {
		t.Errorf("fresh lot has review data: %v %v", got.ReviewedAt, got.ModerationReason)
	}
}

func TestRepo_Create_WithoutPrice(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	seller := testhelper.SeedUser(t, pool)
	d := testhelper.SeedDream(t, pool, seller.ID)

	got, err := repo.Create(context.Background(), domain.Lot{DreamRecordID: &d.ID, Title: "Free"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Price != nil {
		t.Errorf("Price = %s, want nil", got.Price)
	}
}

func TestRepo_Create_RequiresDream(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, domain.Lot{Title: "No dream"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing dream: got %v, want ErrValidation", err)
	}

	missing := int64(1 << 40)
	if _, err := repo.Create(ctx, domain.Lot{DreamRecordID: &missing, Title: "Ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown dream: got %v, want ErrNotFound", err)
	}
}

func TestRepo_Create_RejectsUnstorablePrice(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seller := testhelper.SeedUser(t, pool)
	d := testhelper.SeedDream(t, pool, seller.ID)

	for _, raw := range []string{"19.999", "100000000"} {
		price := decimal.RequireFromString(raw)
		if _, err := repo.Create(ctx, domain.Lot{DreamRecordID: &d.ID, Title: "Pricey", Price: &price}); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("price %s: got %v, want ErrValidation", raw, err)
		}
	}

	lots, err := repo.ListByDreamID(ctx, d.ID)
	if err != nil {
		t.Fatalf("ListByDreamID: %v", err)
	}
	if len(lots) != 0 {
		t.Errorf("rejected lots were persisted: %+v", lots)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	if _, err := repo.GetByID(context.Background(), 1<<40); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRepo_ListByDreamID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	seller := testhelper.SeedUser(t, pool)
	d := testhelper.SeedDream(t, pool, seller.ID)
	first := testhelper.SeedLot(t, pool, d.ID, domain.LotStatusRejected)
	second := testhelper.SeedLot(t, pool, d.ID, domain.LotStatusPending)

	got, err := repo.ListByDreamID(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("ListByDreamID: %v", err)
	}
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("ListByDreamID = %+v, want [%d %d]", got, first.ID, second.ID)
	}
}

func TestRepo_ListBySeller(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seller := testhelper.SeedUser(t, pool)
	other := testhelper.SeedUser(t, pool)
	d1 := testhelper.SeedDream(t, pool, seller.ID)
	d2 := testhelper.SeedDream(t, pool, seller.ID)
	older := testhelper.SeedLot(t, pool, d1.ID, domain.LotStatusPending)
	newer := testhelper.SeedLot(t, pool, d2.ID, domain.LotStatusApproved)
	testhelper.SeedListing(t, pool, domain.LotStatusPending)

	got, err := repo.ListBySeller(ctx, seller.ID)
	if err != nil {
		t.Fatalf("ListBySeller: %v", err)
	}
	if len(got) != 2 || got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Errorf("ListBySeller = %+v, want [%d %d]", got, newer.ID, older.ID)
	}

	none, err := repo.ListBySeller(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListBySeller(other): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListBySeller(other) = %+v, want empty", none)
	}
}

func TestRepo_ListByStatus(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	_, approved := testhelper.SeedListing(t, pool, domain.LotStatusApproved)
	_, pending := testhelper.SeedListing(t, pool, domain.LotStatusPending)

	before, err := repo.CountByStatus(ctx, domain.LotStatusApproved)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if before < 1 {
		t.Fatalf("CountByStatus = %d, want >= 1", before)
	}

	got, err := repo.ListByStatus(ctx, domain.LotStatusApproved, 1000, 0)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	found := false
	for _, l := range got {
		if l.Status != domain.LotStatusApproved {
			t.Fatalf("ListByStatus returned %s lot %d", l.Status, l.ID)
		}
		if l.ID == pending.ID {
			t.Fatalf("pending lot %d listed as approved", pending.ID)
		}
		found = found || l.ID == approved.ID
	}
	if !found {
		t.Errorf("approved lot %d not listed", approved.ID)
	}
}

func TestRepo_Update(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	_, l := testhelper.SeedListing(t, pool, domain.LotStatusPending)
	price := decimal.RequireFromString("9.99")

	got, err := repo.Update(ctx, l.ID, domain.LotUpdateParams{
		Title: ptr("Cheaper dream"),
		Price: &price,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Cheaper dream" || got.Price == nil || !got.Price.Equal(price) {
		t.Errorf("Update = %+v", got)
	}
	if got.Status != l.Status {
		t.Errorf("Status changed to %s", got.Status)
	}

	if _, err := repo.Update(ctx, 1<<40, domain.LotUpdateParams{Title: ptr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update(missing): got %v, want ErrNotFound", err)
	}
	if _, err := repo.Update(ctx, l.ID, domain.LotUpdateParams{Title: ptr("  ")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Update(blank title): got %v, want ErrValidation", err)
	}
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	_, l := testhelper.SeedListing(t, pool, domain.LotStatusPending)

	if err := repo.Delete(ctx, l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, l.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func TestRepo_Delete_ModeratedLotConflicts(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	admin := testhelper.SeedAdmin(t, pool)
	_, l := testhelper.SeedListing(t, pool, domain.LotStatusApproved)

	if err := repo.Archive(ctx, l.ID, admin.ID, "spam"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := repo.Delete(ctx, l.ID); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Delete(moderated): got %v, want ErrConflict", err)
	}
}

// ---------------------------------------------------------------------------
// Archive
// ---------------------------------------------------------------------------

func TestRepo_Archive_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	admin := testhelper.SeedAdmin(t, pool)
	_, l := testhelper.SeedListing(t, pool, domain.LotStatusApproved)

	if err := repo.Archive(ctx, l.ID, admin.ID, "copyright complaint"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.LotStatusArchived {
		t.Errorf("Status = %s, want ARCHIVED", got.Status)
	}
	if got.ReviewedAt == nil {
		t.Error("ReviewedAt not set")
	}
	if got.ModerationReason == nil || *got.ModerationReason != "copyright complaint" {
		t.Errorf("ModerationReason = %v", got.ModerationReason)
	}

	logs := moderationLogs(t, pool, l.ID)
	if len(logs) != 1 {
		t.Fatalf("moderation_log rows = %d, want 1", len(logs))
	}
	if logs[0].adminID != admin.ID || logs[0].action != string(domain.ModerationActionArchive) {
		t.Errorf("log = %+v", logs[0])
	}
	if logs[0].reason == nil || *logs[0].reason != "copyright complaint" {
		t.Errorf("log reason = %v", logs[0].reason)
	}
}

func TestRepo_Archive_FromPending(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	admin := testhelper.SeedAdmin(t, pool)
	_, l := testhelper.SeedListing(t, pool, domain.LotStatusPending)

	if err := repo.Archive(context.Background(), l.ID, admin.ID, ""); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	logs := moderationLogs(t, pool, l.ID)
	if len(logs) != 1 || logs[0].reason != nil {
		t.Errorf("logs = %+v, want one row with NULL reason", logs)
	}
}

func TestRepo_Archive_Failures(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	admin := testhelper.SeedAdmin(t, pool)
	_, rejected := testhelper.SeedListing(t, pool, domain.LotStatusRejected)
	_, archived := testhelper.SeedListing(t, pool, domain.LotStatusArchived)
	seller, pending := testhelper.SeedListing(t, pool, domain.LotStatusPending)

	tests := []struct {
		name    string
		lotID   int64
		adminID int64
		want    error
	}{
		{"rejected lot", rejected.ID, admin.ID, domain.ErrConflict},
		{"archived lot", archived.ID, admin.ID, domain.ErrConflict},
		{"missing lot", 1 << 40, admin.ID, domain.ErrNotFound},
		{"missing admin", pending.ID, 1 << 40, domain.ErrNotFound},
		{"non-admin", pending.ID, seller.ID, domain.ErrForbidden},
		{"zero lot id", 0, admin.ID, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Archive(ctx, tt.lotID, tt.adminID, "nope")
			if !errors.Is(err, tt.want) {
				t.Errorf("Archive: got %v, want %v", err, tt.want)
			}
		})
	}

	// None of the failures touched the lots or the log.
	for _, l := range []domain.Lot{rejected, archived, pending} {
		got, err := repo.GetByID(ctx, l.ID)
		if err != nil {
			t.Fatalf("GetByID(%d): %v", l.ID, err)
		}
		if got.Status != l.Status || got.ModerationReason != nil || got.ReviewedAt != nil {
			t.Errorf("lot %d changed: %+v", l.ID, got)
		}
		if logs := moderationLogs(t, pool, l.ID); len(logs) != 0 {
			t.Errorf("lot %d has %d log rows, want 0", l.ID, len(logs))
		}
	}
}

func TestRepo_Archive_RollsBackWithOuterTx(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	tm := postgres.NewTxManager(pool)

	admin := testhelper.SeedAdmin(t, pool)
	_, l := testhelper.SeedListing(t, pool, domain.LotStatusApproved)
	errAbort := errors.New("abort")

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		if err := repo.Archive(ctx, l.ID, admin.ID, "in tx"); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("RunInTx: got %v, want errAbort", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.LotStatusApproved {
		t.Errorf("Status = %s after rollback, want APPROVED", got.Status)
	}
	if logs := moderationLogs(t, pool, l.ID); len(logs) != 0 {
		t.Errorf("log rows after rollback = %d, want 0", len(logs))
	}
}

func TestRepo_Archive_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	const admins = 8
	adminIDs := make([]int64, admins)
	for i := range adminIDs {
		adminIDs[i] = testhelper.SeedAdmin(t, pool).ID
	}
	_, l := testhelper.SeedListing(t, pool, domain.LotStatusApproved)

	var won, conflicted atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for _, adminID := range adminIDs {
		g.Go(func() error {
			err := repo.Archive(gctx, l.ID, adminID, "race")
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, domain.ErrConflict):
				conflicted.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected archive error: %v", err)
	}

	if won.Load() != 1 || conflicted.Load() != admins-1 {
		t.Errorf("won = %d, conflicted = %d; want 1 and %d", won.Load(), conflicted.Load(), admins-1)
	}
	if logs := moderationLogs(t, pool, l.ID); len(logs) != 1 {
		t.Errorf("moderation_log rows = %d, want exactly 1", len(logs))
	}
}
