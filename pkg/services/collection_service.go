package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/evolution"
	"github.com/critterdex/critterdex/pkg/repositories"
)

// ToggleResult reports the outcome of a toggle: the new ownership state of
// the toggled species and every id the operation touched. Transient; returned
// to the caller, never persisted.
type ToggleResult struct {
	Owned    bool  `json:"owned"`
	Affected []int `json:"affected"`
}

// CollectionService manages a user's owned-species set. Acquiring a species
// cascades: owning an evolved form implies owning every one of its precursor
// forms, applied in one atomic operation. Releasing never cascades.
type CollectionService interface {
	// Toggle flips ownership of speciesID for the user.
	// Returns apperrors.ErrNotFound if speciesID is not a known species.
	Toggle(ctx context.Context, userID uuid.UUID, speciesID int) (*ToggleResult, error)

	// ListOwned returns the set of species ids the user owns.
	ListOwned(ctx context.Context, userID uuid.UUID) (map[int]struct{}, error)
}

type collectionService struct {
	graph  *evolution.Graph
	repo   repositories.OwnershipRepository
	logger *zap.Logger
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(
	graph *evolution.Graph,
	repo repositories.OwnershipRepository,
	logger *zap.Logger,
) CollectionService {
	return &collectionService{
		graph:  graph,
		repo:   repo,
		logger: logger.Named("collection-service"),
	}
}

var _ CollectionService = (*collectionService)(nil)

func (s *collectionService) Toggle(ctx context.Context, userID uuid.UUID, speciesID int) (*ToggleResult, error) {
	// Validate before touching the store: unknown ids must not write anything.
	if speciesID <= 0 || !s.graph.Contains(speciesID) {
		return nil, fmt.Errorf("species %d: %w", speciesID, apperrors.ErrNotFound)
	}

	owned, err := s.repo.IsOwned(ctx, userID, speciesID)
	if err != nil {
		return nil, fmt.Errorf("check ownership: %w", err)
	}

	if owned {
		// Release only the requested species. Turning a species off never
		// cascades: the user may have earned the rest independently.
		if err := s.repo.Remove(ctx, userID, speciesID); err != nil {
			return nil, fmt.Errorf("release species: %w", err)
		}
		return &ToggleResult{Owned: false, Affected: []int{speciesID}}, nil
	}

	candidates := append([]int{speciesID}, s.graph.PreEvolutions(speciesID)...)

	// Re-check every candidate against the graph. The original system never
	// settled between failing hard on an invalid pre-evolution id and
	// filtering it out; we filter and continue, logging what was dropped.
	valid := candidates[:0]
	var dropped []int
	for _, id := range candidates {
		if s.graph.Contains(id) {
			valid = append(valid, id)
		} else {
			dropped = append(dropped, id)
		}
	}
	if len(dropped) > 0 {
		s.logger.Warn("Dropped invalid pre-evolution ids from cascading acquire",
			zap.Int("species_id", speciesID),
			zap.Ints("dropped", dropped))
	}
	if len(valid) == 0 {
		s.logger.Error("Every candidate id rejected during cascading acquire",
			zap.Int("species_id", speciesID))
		return nil, fmt.Errorf("species %d: %w", speciesID, apperrors.ErrNoValidTargets)
	}

	if err := s.repo.AddMany(ctx, userID, valid); err != nil {
		return nil, fmt.Errorf("acquire species: %w", err)
	}

	sort.Ints(valid)
	return &ToggleResult{Owned: true, Affected: valid}, nil
}

func (s *collectionService) ListOwned(ctx context.Context, userID uuid.UUID) (map[int]struct{}, error) {
	owned, err := s.repo.ListOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned species: %w", err)
	}
	return owned, nil
}
