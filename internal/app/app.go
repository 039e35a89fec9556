// Package app wires configuration, logging, the database pool and the
// repositories into one value shared by the commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/category"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/dream"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/lot"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/moderationlog"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/tag"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/transaction"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/user"
	"github.com/callmeani/dream-marketplace/internal/adapter/postgres/visualization"
	"github.com/callmeani/dream-marketplace/internal/config"
	"github.com/callmeani/dream-marketplace/internal/feed"
	"github.com/callmeani/dream-marketplace/internal/loader"
	"github.com/callmeani/dream-marketplace/internal/seed"
)

// Store groups every repository over one pool together with the transaction
// manager. Repositories pick up the transaction from the context, so the same
// Store serves both plain and transactional calls.
type Store struct {
	Tx            *postgres.TxManager
	Users         *user.Repo
	Categories    *category.Repo
	Tags          *tag.Repo
	Visualization *visualization.Repo
	Dreams        *dream.Repo
	Lots          *lot.Repo
	Moderation    *moderationlog.Repo
	Transactions  *transaction.Repo
}

// NewStore builds a Store over db.
func NewStore(db postgres.DB) *Store {
	return &Store{
		Tx:            postgres.NewTxManager(db),
		Users:         user.New(db),
		Categories:    category.New(db),
		Tags:          tag.New(db),
		Visualization: visualization.New(db),
		Dreams:        dream.New(db),
		Lots:          lot.New(db),
		Moderation:    moderationlog.New(db),
		Transactions:  transaction.New(db),
	}
}

// LoaderRepos returns the repositories the per-request loaders batch over.
func (s *Store) LoaderRepos() *loader.Repos {
	return &loader.Repos{
		Tag:           s.Tags,
		Category:      s.Categories,
		Visualization: s.Visualization,
	}
}

// SeedRepos returns the repositories the seeder writes through.
func (s *Store) SeedRepos() seed.Repos {
	return seed.Repos{
		User:          s.Users,
		Category:      s.Categories,
		Tag:           s.Tags,
		Visualization: s.Visualization,
		Dream:         s.Dreams,
		Lot:           s.Lots,
	}
}

// App is the initialized runtime shared by the commands.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Store  *Store
	Feed   *feed.Service
}

// New loads configuration, initializes the logger, optionally applies
// migrations and connects to the database.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig is New with an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := NewLogger(cfg.Log)

	logger.Info("starting",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return nil, fmt.Errorf("migrate on start: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	store := NewStore(pool)

	return &App{
		Config: cfg,
		Logger: logger,
		Pool:   pool,
		Store:  store,
		Feed:   feed.NewService(logger, store.Dreams, store.LoaderRepos()),
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
