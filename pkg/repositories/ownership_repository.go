package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/critterdex/critterdex/pkg/database"
)

// OwnershipRepository defines data access for the per-user owned-species set.
// All operations are atomic per call; there is no cross-call transaction and
// none is needed: AddMany ignores duplicates and Remove is a no-op for rows
// that are already gone, so concurrent retries are safe.
type OwnershipRepository interface {
	// IsOwned reports whether the user owns the given species.
	IsOwned(ctx context.Context, userID uuid.UUID, speciesID int) (bool, error)

	// AddMany marks every id in ids as owned by the user in a single
	// statement. Ids already owned are left untouched. The whole set persists
	// or the call fails; there is no partial insert.
	AddMany(ctx context.Context, userID uuid.UUID, ids []int) error

	// Remove deletes one ownership record. Removing a species the user does
	// not own is not an error.
	Remove(ctx context.Context, userID uuid.UUID, speciesID int) error

	// ListOwned returns the set of species ids owned by the user.
	ListOwned(ctx context.Context, userID uuid.UUID) (map[int]struct{}, error)
}

// ownershipRepository implements OwnershipRepository using PostgreSQL.
type ownershipRepository struct {
	db *database.DB
}

// NewOwnershipRepository creates a new ownership repository.
func NewOwnershipRepository(db *database.DB) OwnershipRepository {
	return &ownershipRepository{db: db}
}

func (r *ownershipRepository) IsOwned(ctx context.Context, userID uuid.UUID, speciesID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM owned_species WHERE user_id = $1 AND species_id = $2)`

	var owned bool
	if err := r.db.QueryRow(ctx, query, userID, speciesID).Scan(&owned); err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}
	return owned, nil
}

func (r *ownershipRepository) AddMany(ctx context.Context, userID uuid.UUID, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	// Single multi-row INSERT so the whole set lands atomically.
	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("($1, $%d)", i+2))
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		INSERT INTO owned_species (user_id, species_id)
		VALUES %s
		ON CONFLICT (user_id, species_id) DO NOTHING`,
		strings.Join(placeholders, ", "))

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add owned species: %w", err)
	}
	return nil
}

func (r *ownershipRepository) Remove(ctx context.Context, userID uuid.UUID, speciesID int) error {
	query := `DELETE FROM owned_species WHERE user_id = $1 AND species_id = $2`

	if _, err := r.db.Exec(ctx, query, userID, speciesID); err != nil {
		return fmt.Errorf("failed to remove owned species: %w", err)
	}
	return nil
}

func (r *ownershipRepository) ListOwned(ctx context.Context, userID uuid.UUID) (map[int]struct{}, error) {
	query := `SELECT species_id FROM owned_species WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned species: %w", err)
	}
	defer rows.Close()

	owned := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan owned species id: %w", err)
		}
		owned[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read owned species rows: %w", err)
	}

	return owned, nil
}

// Ensure ownershipRepository implements OwnershipRepository at compile time.
var _ OwnershipRepository = (*ownershipRepository)(nil)
