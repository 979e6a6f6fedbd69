package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fortuna/boreas/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetAll returns all teams ordered by name
func (r *TeamRepository) GetAll(ctx context.Context) ([]*store.Team, error) {
	var teams []*store.Team
	err := r.db.DB().WithContext(ctx).Order("name").Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	return teams, nil
}

// GetByName finds a team by its full name as printed in game reports
// (e.g. "Rochester Americans")
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*store.Team, error) {
	var team store.Team
	err := r.db.DB().WithContext(ctx).Where("name = ?", name).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("team not found: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return &team, nil
}

// FindByName is like GetByName but returns nil without error when the team
// is unknown
func (r *TeamRepository) FindByName(ctx context.Context, name string) (*store.Team, error) {
	var team store.Team
	err := r.db.DB().WithContext(ctx).Where("name = ?", name).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return &team, nil
}
