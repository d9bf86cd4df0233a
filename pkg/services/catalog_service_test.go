package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/catalog"
	"github.com/critterdex/critterdex/pkg/evolution"
)

// bigCatalog builds n species with predictable names and alternating types.
func bigCatalog(n int) *catalog.Catalog {
	species := make([]catalog.Species, 0, n)
	for i := 1; i <= n; i++ {
		typ := "Grass"
		if i%2 == 0 {
			typ = "Fire"
		}
		species = append(species, catalog.Species{
			ID:          i,
			Name:        fmt.Sprintf("critter-%03d", i),
			Types:       []string{typ},
			Description: fmt.Sprintf("Entry number %d in the field guide.", i),
		})
	}
	return catalog.New(species)
}

func newTestCatalogService(cat *catalog.Catalog, repo *mockOwnershipRepo) CatalogService {
	graph := evolution.Build(cat.All())
	return NewCatalogService(cat, graph, repo, zap.NewNop())
}

func TestQuery_PaginationExactness(t *testing.T) {
	svc := newTestCatalogService(bigCatalog(45), newMockOwnershipRepo())

	result, err := svc.Query(context.Background(), uuid.New(), Filters{}, 3, 20)
	require.NoError(t, err)

	assert.Len(t, result.Items, 5)
	assert.Equal(t, 45, result.Total)
	assert.Equal(t, 41, result.Items[0].ID)
}

func TestQuery_PageBeyondEnd(t *testing.T) {
	svc := newTestCatalogService(bigCatalog(10), newMockOwnershipRepo())

	result, err := svc.Query(context.Background(), uuid.New(), Filters{}, 99, 20)
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, 10, result.Total)
}

func TestQuery_ClampsPageAndPageSize(t *testing.T) {
	svc := newTestCatalogService(bigCatalog(10), newMockOwnershipRepo())

	result, err := svc.Query(context.Background(), uuid.New(), Filters{}, 0, 0)
	require.NoError(t, err)

	assert.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.Items[0].ID)

	result, err = svc.Query(context.Background(), uuid.New(), Filters{}, 1, 10_000)
	require.NoError(t, err)
	assert.Len(t, result.Items, 10)
}

func TestQuery_FilterComposition(t *testing.T) {
	svc := newTestCatalogService(bigCatalog(45), newMockOwnershipRepo())

	// Name substring and type filter must both hold.
	result, err := svc.Query(context.Background(), uuid.New(), Filters{
		Search: "critter-01",
		Type:   "Fire",
	}, 1, 20)
	require.NoError(t, err)

	// critter-010..critter-019 match the substring; the even ids are Fire.
	assert.Equal(t, 5, result.Total)
	for _, item := range result.Items {
		assert.Contains(t, item.Name, "critter-01")
		assert.Equal(t, []string{"Fire"}, item.Types)
	}
}

func TestQuery_SearchIsCaseInsensitive(t *testing.T) {
	svc := newTestCatalogService(bigCatalog(5), newMockOwnershipRepo())

	result, err := svc.Query(context.Background(), uuid.New(), Filters{Search: "CRITTER-001"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestQuery_DescriptionFilter(t *testing.T) {
	svc := newTestCatalogService(bigCatalog(20), newMockOwnershipRepo())

	result, err := svc.Query(context.Background(), uuid.New(), Filters{Description: "number 7"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 7, result.Items[0].ID)
}

func TestQuery_StageFilter(t *testing.T) {
	cat := catalog.New([]catalog.Species{
		{ID: 1, Name: "base-form", Types: []string{"Grass"}, EvolvesTo: []catalog.EvolutionTarget{{ID: 2}}},
		{ID: 2, Name: "mid-form", Types: []string{"Grass"}, EvolvesTo: []catalog.EvolutionTarget{{ID: 3}}},
		{ID: 3, Name: "final-form", Types: []string{"Grass"}},
	})
	svc := newTestCatalogService(cat, newMockOwnershipRepo())

	result, err := svc.Query(context.Background(), uuid.New(), Filters{Stage: "stage 2"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 3, result.Items[0].ID)
	assert.Equal(t, "stage 2", result.Items[0].Stage)

	result, err = svc.Query(context.Background(), uuid.New(), Filters{Stage: "base"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Items[0].ID)
}

func TestQuery_OwnershipAnnotation(t *testing.T) {
	repo := newMockOwnershipRepo()
	userID := uuid.New()
	require.NoError(t, repo.AddMany(context.Background(), userID, []int{2, 4}))

	svc := newTestCatalogService(bigCatalog(5), repo)

	result, err := svc.Query(context.Background(), userID, Filters{}, 1, 20)
	require.NoError(t, err)

	for _, item := range result.Items {
		assert.Equal(t, item.ID == 2 || item.ID == 4, item.Owned, "item %d", item.ID)
	}

	// A different user sees nothing owned; the join is per request, per user.
	result, err = svc.Query(context.Background(), uuid.New(), Filters{}, 1, 20)
	require.NoError(t, err)
	for _, item := range result.Items {
		assert.False(t, item.Owned)
	}
}

func TestDetail_EvolutionChain(t *testing.T) {
	cat := catalog.New([]catalog.Species{
		{ID: 3, Name: "final-form", Types: []string{"Grass"}},
		{ID: 1, Name: "base-form", Types: []string{"Grass"}, EvolvesTo: []catalog.EvolutionTarget{{ID: 2}}},
		{ID: 2, Name: "mid-form", Types: []string{"Grass"}, EvolvesTo: []catalog.EvolutionTarget{{ID: 3}}},
	})
	repo := newMockOwnershipRepo()
	userID := uuid.New()
	require.NoError(t, repo.AddMany(context.Background(), userID, []int{1}))

	svc := newTestCatalogService(cat, repo)

	detail, err := svc.Detail(context.Background(), userID, 2)
	require.NoError(t, err)

	assert.Equal(t, "mid-form", detail.Name)
	assert.Equal(t, "stage 1", detail.Stage)
	assert.False(t, detail.Owned)

	// Chain holds the whole connected component, sorted by id.
	require.Len(t, detail.Chain, 3)
	assert.Equal(t, 1, detail.Chain[0].ID)
	assert.Equal(t, 2, detail.Chain[1].ID)
	assert.Equal(t, 3, detail.Chain[2].ID)
	assert.True(t, detail.Chain[0].Owned)
	assert.False(t, detail.Chain[2].Owned)
}

func TestDetail_DanglingGraphNodeSkipped(t *testing.T) {
	// Species 1 evolves into 99, which has no catalog record. The graph node
	// exists, the detail chain just has nothing to render for it.
	cat := catalog.New([]catalog.Species{
		{ID: 1, Name: "base-form", Types: []string{"Grass"}, EvolvesTo: []catalog.EvolutionTarget{{ID: 99}}},
	})
	svc := newTestCatalogService(cat, newMockOwnershipRepo())

	detail, err := svc.Detail(context.Background(), uuid.New(), 1)
	require.NoError(t, err)

	require.Len(t, detail.Chain, 1)
	assert.Equal(t, 1, detail.Chain[0].ID)
}

func TestDetail_NotFound(t *testing.T) {
	svc := newTestCatalogService(bigCatalog(5), newMockOwnershipRepo())

	_, err := svc.Detail(context.Background(), uuid.New(), 999999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
