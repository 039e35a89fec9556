// Package feed assembles public dream listings together with the rows each
// dream references. Related rows are resolved through per-call loaders, so a
// listing of N dreams costs one query per relation instead of N.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/callmeani/dream-marketplace/internal/domain"
	"github.com/callmeani/dream-marketplace/internal/loader"
)

type dreamRepo interface {
	FindPublicByTag(ctx context.Context, tagName string) ([]domain.DreamRecord, error)
}

// Item is one dream of a listing with its relations resolved.
// Category and Visualization are nil when the dream has none.
type Item struct {
	Dream         domain.DreamRecord
	Tags          []domain.Tag
	Category      *domain.Category
	Visualization *domain.Visualization
}

// Service builds dream listings.
type Service struct {
	log    *slog.Logger
	dreams dreamRepo
	repos  *loader.Repos
}

// NewService creates a feed service.
func NewService(log *slog.Logger, dreams dreamRepo, repos *loader.Repos) *Service {
	return &Service{log: log, dreams: dreams, repos: repos}
}

// pending holds the unresolved loads of one dream.
type pending struct {
	tags          dataloader.Thunk[[]domain.Tag]
	category      dataloader.Thunk[*domain.Category]
	visualization dataloader.Thunk[*domain.Visualization]
}

// ByTag returns the PUBLIC dreams carrying tagName, newest first.
func (s *Service) ByTag(ctx context.Context, tagName string) ([]Item, error) {
	name := domain.NormalizeTagName(tagName)
	if name == "" {
		return nil, domain.NewValidationError("tag", "required")
	}

	dreams, err := s.dreams.FindPublicByTag(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find public dreams by tag %q: %w", name, err)
	}
	if len(dreams) == 0 {
		return []Item{}, nil
	}

	ctx = loader.WithLoaders(ctx, loader.New(s.repos))
	l := loader.FromContext(ctx)

	// Enqueue every load before resolving any so each loader sees one batch.
	loads := make([]pending, len(dreams))
	for i, d := range dreams {
		loads[i].tags = l.TagsByDreamID.Load(ctx, d.ID)
		if d.CategoryID != nil {
			loads[i].category = l.CategoryByID.Load(ctx, *d.CategoryID)
		}
		if d.VisualizationID != nil {
			loads[i].visualization = l.VisualizationByID.Load(ctx, *d.VisualizationID)
		}
	}

	items := make([]Item, len(dreams))
	for i, d := range dreams {
		item := Item{Dream: d}
		if item.Tags, err = loads[i].tags(); err != nil {
			return nil, fmt.Errorf("load tags of dream %d: %w", d.ID, err)
		}
		if loads[i].category != nil {
			if item.Category, err = loads[i].category(); err != nil {
				return nil, fmt.Errorf("load category of dream %d: %w", d.ID, err)
			}
		}
		if loads[i].visualization != nil {
			if item.Visualization, err = loads[i].visualization(); err != nil {
				return nil, fmt.Errorf("load visualization of dream %d: %w", d.ID, err)
			}
		}
		items[i] = item
	}

	s.log.DebugContext(ctx, "feed built",
		slog.String("tag", name),
		slog.Int("dreams", len(items)),
	)
	return items, nil
}
