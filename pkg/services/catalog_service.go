package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/catalog"
	"github.com/critterdex/critterdex/pkg/evolution"
	"github.com/critterdex/critterdex/pkg/repositories"
)

// MaxPageSize caps the number of items a single query page may return.
const MaxPageSize = 100

// Filters narrows a catalog query. Zero-value fields are ignored; set fields
// combine with logical AND.
type Filters struct {
	// Search matches case-insensitively against the species name.
	Search string
	// Type matches exactly against one of the species' types.
	Type string
	// Stage matches exactly against the derived stage label ("base",
	// "stage 1", ...).
	Stage string
	// Description matches case-insensitively against the description text.
	Description string
}

// SpeciesSummary is one catalog listing entry annotated with the calling
// user's ownership.
type SpeciesSummary struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
	Stage  string   `json:"stage"`
	Sprite string   `json:"sprite,omitempty"`
	Owned  bool     `json:"owned"`
}

// SpeciesDetail is the full species record for the detail page, including the
// evolution chain the species belongs to.
type SpeciesDetail struct {
	SpeciesSummary
	Description string           `json:"description,omitempty"`
	BaseStats   map[string]int   `json:"base_stats,omitempty"`
	Thumbnail   string           `json:"thumbnail,omitempty"`
	Chain       []SpeciesSummary `json:"evolution_chain"`
}

// QueryResult is one page of filtered catalog entries. Total counts every
// filtered item before pagination is applied.
type QueryResult struct {
	Items []SpeciesSummary `json:"items"`
	Total int              `json:"total"`
}

// CatalogService answers filtered, paginated catalog queries and species
// detail lookups, each annotated with the calling user's ownership. The
// ownership join runs on every request; nothing is cached server-side.
type CatalogService interface {
	Query(ctx context.Context, userID uuid.UUID, filters Filters, page, pageSize int) (*QueryResult, error)
	Detail(ctx context.Context, userID uuid.UUID, speciesID int) (*SpeciesDetail, error)
}

type catalogService struct {
	catalog   *catalog.Catalog
	graph     *evolution.Graph
	ownership repositories.OwnershipRepository
	stages    map[int]string
	logger    *zap.Logger
}

// NewCatalogService creates a new CatalogService. Stage labels are derived
// from the graph once here; both the catalog and the graph are immutable for
// the process lifetime.
func NewCatalogService(
	cat *catalog.Catalog,
	graph *evolution.Graph,
	ownership repositories.OwnershipRepository,
	logger *zap.Logger,
) CatalogService {
	stages := make(map[int]string, cat.Len())
	for _, s := range cat.All() {
		stages[s.ID] = stageLabel(graph.StageOf(s.ID))
	}

	return &catalogService{
		catalog:   cat,
		graph:     graph,
		ownership: ownership,
		stages:    stages,
		logger:    logger.Named("catalog-service"),
	}
}

var _ CatalogService = (*catalogService)(nil)

func stageLabel(stage int) string {
	if stage == 0 {
		return "base"
	}
	return fmt.Sprintf("stage %d", stage)
}

func (s *catalogService) Query(ctx context.Context, userID uuid.UUID, filters Filters, page, pageSize int) (*QueryResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var filtered []catalog.Species
	for _, sp := range s.catalog.All() {
		if s.matches(sp, filters) {
			filtered = append(filtered, sp)
		}
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	owned, err := s.ownership.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned species: %w", err)
	}

	items := make([]SpeciesSummary, 0, end-start)
	for _, sp := range filtered[start:end] {
		items = append(items, s.summarize(sp, owned))
	}

	return &QueryResult{Items: items, Total: total}, nil
}

func (s *catalogService) Detail(ctx context.Context, userID uuid.UUID, speciesID int) (*SpeciesDetail, error) {
	sp := s.catalog.Get(speciesID)
	if sp == nil {
		return nil, fmt.Errorf("species %d: %w", speciesID, apperrors.ErrNotFound)
	}

	owned, err := s.ownership.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned species: %w", err)
	}

	// Traversal makes no order promise; the detail page wants ids ascending.
	chainIDs := s.graph.Chain(speciesID)
	sort.Ints(chainIDs)

	chain := make([]SpeciesSummary, 0, len(chainIDs))
	for _, id := range chainIDs {
		member := s.catalog.Get(id)
		if member == nil {
			// Graph node without a catalog record (dangling target id in the
			// dataset); nothing to render for it.
			continue
		}
		chain = append(chain, s.summarize(*member, owned))
	}

	detail := &SpeciesDetail{
		SpeciesSummary: s.summarize(*sp, owned),
		Description:    sp.Description,
		BaseStats:      sp.BaseStats,
		Thumbnail:      sp.Thumbnail,
		Chain:          chain,
	}
	return detail, nil
}

func (s *catalogService) matches(sp catalog.Species, f Filters) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(sp.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Type != "" {
		found := false
		for _, t := range sp.Types {
			if t == f.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Stage != "" && s.stages[sp.ID] != f.Stage {
		return false
	}
	if f.Description != "" && !strings.Contains(strings.ToLower(sp.Description), strings.ToLower(f.Description)) {
		return false
	}
	return true
}

func (s *catalogService) summarize(sp catalog.Species, owned map[int]struct{}) SpeciesSummary {
	_, isOwned := owned[sp.ID]
	return SpeciesSummary{
		ID:     sp.ID,
		Name:   sp.Name,
		Types:  sp.Types,
		Stage:  s.stages[sp.ID],
		Sprite: sp.Sprite,
		Owned:  isOwned,
	}
}
