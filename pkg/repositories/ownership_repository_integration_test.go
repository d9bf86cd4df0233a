package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/models"
	"github.com/critterdex/critterdex/pkg/testhelpers"
)

func createTestUser(t *testing.T, users UserRepository) uuid.UUID {
	t.Helper()
	user := &models.User{
		Name:         "tester",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func TestOwnershipRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewOwnershipRepository(db.DB)
	users := NewUserRepository(db.DB)
	ctx := context.Background()
	userID := createTestUser(t, users)

	owned, err := repo.IsOwned(ctx, userID, 1)
	require.NoError(t, err)
	assert.False(t, owned)

	// Bulk insert a cascading set.
	require.NoError(t, repo.AddMany(ctx, userID, []int{1, 2, 3}))

	owned, err = repo.IsOwned(ctx, userID, 2)
	require.NoError(t, err)
	assert.True(t, owned)

	// Idempotent: overlapping insert neither fails nor duplicates.
	require.NoError(t, repo.AddMany(ctx, userID, []int{2, 3, 4}))

	ids, err := repo.ListOwned(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, ids, 4)

	// Remove exactly one; removing it again is a no-op.
	require.NoError(t, repo.Remove(ctx, userID, 3))
	require.NoError(t, repo.Remove(ctx, userID, 3))

	ids, err = repo.ListOwned(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.NotContains(t, ids, 3)

	// Other users are unaffected.
	otherID := createTestUser(t, users)
	ids, err = repo.ListOwned(ctx, otherID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestOwnershipRepository_AddManyEmpty(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewOwnershipRepository(db.DB)
	users := NewUserRepository(db.DB)

	userID := createTestUser(t, users)
	require.NoError(t, repo.AddMany(context.Background(), userID, nil))
}

func TestUserRepository_Integration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	users := NewUserRepository(db.DB)
	ctx := context.Background()

	user := &models.User{
		Name:         "Ash",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, users.Create(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)

	byEmail, err := users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	// Duplicate email maps to the conflict sentinel.
	dup := &models.User{Name: "Other", Email: user.Email, PasswordHash: "hash"}
	err = users.Create(ctx, dup)
	require.ErrorIs(t, err, apperrors.ErrConflict)
}
