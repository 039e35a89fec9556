package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/callmeani/dream-marketplace/internal/domain"
)

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// Now returns the current UTC time at the precision PostgreSQL stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// SeedUser creates a USER account with a unique username, email and yandex id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.UserAccount {
	t.Helper()
	return seedAccount(t, pool, domain.UserRoleUser)
}

// SeedAdmin creates an ADMIN account.
func SeedAdmin(t *testing.T, pool *pgxpool.Pool) domain.UserAccount {
	t.Helper()
	return seedAccount(t, pool, domain.UserRoleAdmin)
}

func seedAccount(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.UserAccount {
	t.Helper()

	suffix := UniqueSuffix()
	yandexID := "yandex-" + suffix
	u := domain.UserAccount{
		YandexID:  &yandexID,
		Username:  "dreamer-" + suffix,
		Email:     "dreamer-" + suffix + "@example.com",
		Role:      role,
		Balance:   decimal.Zero,
		CreatedAt: Now(),
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO user_account (yandex_id, username, email, role, balance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		u.YandexID, u.Username, u.Email, string(u.Role), u.Balance, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		t.Fatalf("testhelper: seed %s account: %v", role, err)
	}

	return u
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// SeedCategory creates a category with a unique name.
func SeedCategory(t *testing.T, pool *pgxpool.Pool) domain.Category {
	t.Helper()

	c := domain.Category{Name: "category-" + UniqueSuffix()}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO category (name) VALUES ($1) RETURNING id`, c.Name,
	).Scan(&c.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory: %v", err)
	}
	return c
}

// SeedTag creates a tag with a unique name.
func SeedTag(t *testing.T, pool *pgxpool.Pool) domain.Tag {
	t.Helper()

	tag := domain.Tag{Name: "tag-" + UniqueSuffix()}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO tag (name) VALUES ($1) RETURNING id`, tag.Name,
	).Scan(&tag.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedTag: %v", err)
	}
	return tag
}

// SeedVisualization creates a READY visualization.
func SeedVisualization(t *testing.T, pool *pgxpool.Pool) domain.Visualization {
	t.Helper()

	v := domain.Visualization{
		FilePath:  "visualizations/" + UniqueSuffix() + ".png",
		Status:    domain.VisualizationStatusReady,
		CreatedAt: Now(),
	}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO visualization (file_path, status, created_at) VALUES ($1, $2, $3) RETURNING id`,
		v.FilePath, string(v.Status), v.CreatedAt,
	).Scan(&v.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedVisualization: %v", err)
	}
	return v
}

// ---------------------------------------------------------------------------
// Dreams
// ---------------------------------------------------------------------------

// DreamOption customizes a seeded dream.
type DreamOption func(*dreamSeed)

type dreamSeed struct {
	dream  domain.DreamRecord
	tagIDs []int64
}

// WithPrivacy sets the dream's privacy (default PRIVATE).
func WithPrivacy(p domain.Privacy) DreamOption {
	return func(s *dreamSeed) { s.dream.Privacy = p }
}

// WithCategory assigns the dream to a category.
func WithCategory(id int64) DreamOption {
	return func(s *dreamSeed) { s.dream.CategoryID = &id }
}

// WithCreatedAt overrides the creation timestamp, for ordering tests.
func WithCreatedAt(ts time.Time) DreamOption {
	return func(s *dreamSeed) { s.dream.CreatedAt = ts.UTC().Truncate(time.Microsecond) }
}

// WithTags links the dream to the given tags.
func WithTags(ids ...int64) DreamOption {
	return func(s *dreamSeed) { s.tagIDs = append(s.tagIDs, ids...) }
}

// SeedDream creates a dream owned by userID.
func SeedDream(t *testing.T, pool *pgxpool.Pool, userID int64, opts ...DreamOption) domain.DreamRecord {
	t.Helper()
	ctx := context.Background()

	s := dreamSeed{dream: domain.DreamRecord{
		UserID:    userID,
		Title:     "Dream " + UniqueSuffix(),
		Content:   "I was flying over a city made of glass.",
		Privacy:   domain.PrivacyPrivate,
		CreatedAt: Now(),
	}}
	for _, opt := range opts {
		opt(&s)
	}
	d := s.dream

	err := pool.QueryRow(ctx,
		`INSERT INTO dream_record (user_id, category_id, title, content, privacy, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		d.UserID, d.CategoryID, d.Title, d.Content, string(d.Privacy), d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedDream: %v", err)
	}

	for _, tagID := range s.tagIDs {
		if _, err := pool.Exec(ctx,
			`INSERT INTO dream_record_tag (dream_record_id, tag_id) VALUES ($1, $2)`, d.ID, tagID,
		); err != nil {
			t.Fatalf("testhelper: SeedDream link tag %d: %v", tagID, err)
		}
	}

	return d
}

// ---------------------------------------------------------------------------
// Lots
// ---------------------------------------------------------------------------

// SeedLot creates a lot for dreamID in the given status.
func SeedLot(t *testing.T, pool *pgxpool.Pool, dreamID int64, status domain.LotStatus) domain.Lot {
	t.Helper()

	price := decimal.RequireFromString("49.90")
	l := domain.Lot{
		DreamRecordID: &dreamID,
		Title:         "Lot " + UniqueSuffix(),
		Price:         &price,
		Status:        status,
		SubmittedAt:   Now(),
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO lot (dream_record_id, title, price, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		l.DreamRecordID, l.Title, l.Price, string(l.Status), l.SubmittedAt,
	).Scan(&l.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedLot: %v", err)
	}
	return l
}

// SeedListing creates a seller, a public dream and a lot in the given status.
func SeedListing(t *testing.T, pool *pgxpool.Pool, status domain.LotStatus) (domain.UserAccount, domain.Lot) {
	t.Helper()

	seller := SeedUser(t, pool)
	dream := SeedDream(t, pool, seller.ID, WithPrivacy(domain.PrivacyPublic))
	return seller, SeedLot(t, pool, dream.ID, status)
}
