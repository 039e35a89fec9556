// Package seed fills a development database with fake users, catalog
// entries, dreams and lots.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/callmeani/dream-marketplace/internal/config"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces
// ---------------------------------------------------------------------------

type userRepo interface {
	Create(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
}

type categoryRepo interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type tagRepo interface {
	GetOrCreate(ctx context.Context, name string) (*domain.Tag, error)
}

type visualizationRepo interface {
	Create(ctx context.Context, v domain.Visualization) (*domain.Visualization, error)
}

type dreamRepo interface {
	Create(ctx context.Context, d domain.DreamRecord, tagIDs []int64) (*domain.DreamRecord, error)
	AttachVisualization(ctx context.Context, id, userID, visualizationID int64) (*domain.DreamRecord, error)
}

type lotRepo interface {
	Create(ctx context.Context, l domain.Lot) (*domain.Lot, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metadata recorded on seeded visualizations.
var (
	seedGenerator = "seed"
	seedMime      = "image/png"
)

// Repos holds the repositories the seeder writes through.
type Repos struct {
	User          userRepo
	Category      categoryRepo
	Tag           tagRepo
	Visualization visualizationRepo
	Dream         dreamRepo
	Lot           lotRepo
}

// Result counts what a run created.
type Result struct {
	Users          int
	Categories     int
	Tags           int
	Dreams         int
	Visualizations int
	Lots           int
	Duration       time.Duration
}

// Seeder persists a Plan.
type Seeder struct {
	log   *slog.Logger
	repos Repos
	tx    txManager
	cfg   config.SeedConfig
	faker *gofakeit.Faker
}

// New creates a Seeder. A zero cfg.RandomSeed seeds the faker randomly.
func New(log *slog.Logger, repos Repos, tx txManager, cfg config.SeedConfig) *Seeder {
	return &Seeder{
		log:   log,
		repos: repos,
		tx:    tx,
		cfg:   cfg,
		faker: gofakeit.New(cfg.RandomSeed),
	}
}

// Run builds a plan and writes it. Catalog entries are written first; each
// user and everything they own is then written in its own transaction, so a
// failure leaves earlier users intact.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	plan := BuildPlan(s.cfg, s.faker)

	var res Result

	categoryIDs, created, err := s.ensureCategories(ctx, plan.Categories)
	if err != nil {
		return res, err
	}
	res.Categories = created

	tagIDs := make([]int64, len(plan.Tags))
	for i, name := range plan.Tags {
		tag, err := s.repos.Tag.GetOrCreate(ctx, name)
		if err != nil {
			return res, fmt.Errorf("seed tag %q: %w", name, err)
		}
		tagIDs[i] = tag.ID
	}
	res.Tags = len(tagIDs)

	for _, up := range plan.Users {
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.seedUser(ctx, up, categoryIDs, tagIDs, &res)
		})
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", up.Account.Email, err)
		}
	}

	res.Duration = time.Since(start)
	s.log.InfoContext(ctx, "seed complete",
		slog.Int("users", res.Users),
		slog.Int("categories", res.Categories),
		slog.Int("tags", res.Tags),
		slog.Int("dreams", res.Dreams),
		slog.Int("visualizations", res.Visualizations),
		slog.Int("lots", res.Lots),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// ensureCategories creates the planned categories, reusing ones that already
// exist by name. It returns ids in plan order and the number created.
func (s *Seeder) ensureCategories(ctx context.Context, names []string) ([]int64, int, error) {
	existing, err := s.repos.Category.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	ids := make([]int64, len(names))
	created := 0
	for i, name := range names {
		if id, ok := byName[name]; ok {
			ids[i] = id
			continue
		}
		c, err := s.repos.Category.Create(ctx, name)
		if err != nil {
			return nil, created, fmt.Errorf("seed category %q: %w", name, err)
		}
		ids[i] = c.ID
		created++
	}
	return ids, created, nil
}

func (s *Seeder) seedUser(ctx context.Context, up UserPlan, categoryIDs, tagIDs []int64, res *Result) error {
	// Look up before inserting: a failed INSERT would abort the surrounding
	// transaction. An existing account comes from an earlier run with the
	// same random seed and is reused.
	user, err := s.repos.User.GetByEmail(ctx, up.Account.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if user, err = s.repos.User.Create(ctx, up.Account); err != nil {
			return err
		}
		res.Users++
	case err != nil:
		return err
	}

	for _, dp := range up.Dreams {
		d := dp.Dream
		d.UserID = user.ID
		if dp.CategoryIdx >= 0 {
			d.CategoryID = &categoryIDs[dp.CategoryIdx]
		}
		ids := make([]int64, len(dp.TagIdx))
		for i, idx := range dp.TagIdx {
			ids[i] = tagIDs[idx]
		}

		dream, err := s.repos.Dream.Create(ctx, d, ids)
		if err != nil {
			return err
		}
		res.Dreams++

		if dp.HasVisualization {
			size := 1024
			vis, err := s.repos.Visualization.Create(ctx, domain.Visualization{
				Prompt:    &dream.Title,
				Generator: &seedGenerator,
				FilePath:  fmt.Sprintf("visualizations/%d/%d.png", user.ID, dream.ID),
				Mime:      &seedMime,
				Width:     &size,
				Height:    &size,
				Status:    domain.VisualizationStatusReady,
			})
			if err != nil {
				return err
			}
			if _, err := s.repos.Dream.AttachVisualization(ctx, dream.ID, user.ID, vis.ID); err != nil {
				return err
			}
			res.Visualizations++
		}

		if dp.Lot != nil {
			l := *dp.Lot
			l.DreamRecordID = &dream.ID
			if _, err := s.repos.Lot.Create(ctx, l); err != nil {
				return err
			}
			res.Lots++
		}
	}
	return nil
}
