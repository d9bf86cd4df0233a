package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/auth"
	"github.com/critterdex/critterdex/pkg/models"
	"github.com/critterdex/critterdex/pkg/services"
)

// authedRequest builds a request carrying validated claims for userID, as the
// auth middleware would after a successful token check.
func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	}
	return r.WithContext(context.WithValue(r.Context(), auth.ClaimsKey, claims))
}

// mockCollectionService implements services.CollectionService.
type mockCollectionService struct {
	toggleResult *services.ToggleResult
	toggleErr    error
	owned        map[int]struct{}
	listErr      error

	gotUserID    uuid.UUID
	gotSpeciesID int
}

func (m *mockCollectionService) Toggle(_ context.Context, userID uuid.UUID, speciesID int) (*services.ToggleResult, error) {
	m.gotUserID = userID
	m.gotSpeciesID = speciesID
	if m.toggleErr != nil {
		return nil, m.toggleErr
	}
	return m.toggleResult, nil
}

func (m *mockCollectionService) ListOwned(_ context.Context, userID uuid.UUID) (map[int]struct{}, error) {
	m.gotUserID = userID
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.owned, nil
}

// mockCatalogService implements services.CatalogService.
type mockCatalogService struct {
	queryResult *services.QueryResult
	queryErr    error
	detail      *services.SpeciesDetail
	detailErr   error

	gotFilters  services.Filters
	gotPage     int
	gotPageSize int
}

func (m *mockCatalogService) Query(_ context.Context, _ uuid.UUID, filters services.Filters, page, pageSize int) (*services.QueryResult, error) {
	m.gotFilters = filters
	m.gotPage = page
	m.gotPageSize = pageSize
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.queryResult, nil
}

func (m *mockCatalogService) Detail(_ context.Context, _ uuid.UUID, speciesID int) (*services.SpeciesDetail, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	return m.detail, nil
}

// mockUserRepo implements repositories.UserRepository.
type mockUserRepo struct {
	users     map[string]*models.User
	createErr error
	getErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
