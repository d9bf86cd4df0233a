package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/models"
)

func TestRequireAuth_ValidToken(t *testing.T) {
	svc := newTestService()
	mw := NewMiddleware(svc, zap.NewNop())
	user := testUser()

	token, _, err := svc.IssueToken(user)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("GET", "/api/dex", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, gotUserID)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	mw := NewMiddleware(newTestService(), zap.NewNop())

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest("GET", "/api/dex", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestRequireAuth_NilUserID(t *testing.T) {
	svc := newTestService()
	mw := NewMiddleware(svc, zap.NewNop())

	// A token for the nil uuid validates but identifies nobody.
	badToken, _, err := svc.IssueToken(&models.User{ID: uuid.Nil, Name: "nil-user"})
	require.NoError(t, err)

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest("GET", "/api/dex", nil)
	r.Header.Set("Authorization", "Bearer "+badToken)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}
