package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/boreas/internal/store"
)

// ArenaRepository handles arena data access
type ArenaRepository struct {
	db *store.Database
}

// NewArenaRepository creates a new arena repository
func NewArenaRepository(db *store.Database) *ArenaRepository {
	return &ArenaRepository{db: db}
}

// ListMissingCoordinates returns arenas that still have the zero
// placeholder coordinates
func (r *ArenaRepository) ListMissingCoordinates(ctx context.Context) ([]*store.Arena, error) {
	var arenas []*store.Arena
	err := r.db.DB().WithContext(ctx).
		Where("latitude = 0 AND longitude = 0").
		Order("name").
		Find(&arenas).Error
	if err != nil {
		return nil, fmt.Errorf("querying arenas: %w", err)
	}
	return arenas, nil
}

// UpdateCoordinates stores a geocoded position for an arena
func (r *ArenaRepository) UpdateCoordinates(ctx context.Context, arenaID uint, latitude, longitude float64) error {
	err := r.db.DB().WithContext(ctx).
		Model(&store.Arena{}).
		Where("id = ?", arenaID).
		Updates(map[string]any{
			"latitude":  latitude,
			"longitude": longitude,
		}).Error
	if err != nil {
		return fmt.Errorf("updating arena coordinates: %w", err)
	}
	return nil
}
