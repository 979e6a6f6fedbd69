package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/fortuna/boreas/internal/store"
)

// SeasonRepository handles season rows
type SeasonRepository struct {
	db *store.Database
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *store.Database) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// List returns all seasons oldest first
func (r *SeasonRepository) List(ctx context.Context) ([]store.Season, error) {
	var seasons []store.Season
	err := r.db.DB().WithContext(ctx).Order("season").Find(&seasons).Error
	if err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	return seasons, nil
}

// Ensure creates the season row if it does not exist yet
func (r *SeasonRepository) Ensure(ctx context.Context, seasonID string) error {
	err := r.db.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&store.Season{ID: seasonID}).Error
	if err != nil {
		return fmt.Errorf("ensuring season: %w", err)
	}
	return nil
}
