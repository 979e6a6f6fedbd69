package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fortuna/boreas/internal/store"
)

// PointRepository handles the team_date_points standings aggregates
type PointRepository struct {
	db *store.Database
}

// NewPointRepository creates a new point repository
func NewPointRepository(db *store.Database) *PointRepository {
	return &PointRepository{db: db}
}

// LastBefore returns a team's most recent snapshot strictly before a date,
// looking no further back than floor. Returns nil when the team has no
// snapshot in that range.
func (r *PointRepository) LastBefore(ctx context.Context, teamID uint, before, floor time.Time) (*store.TeamDatePoint, error) {
	var row store.TeamDatePoint
	err := r.db.DB().WithContext(ctx).
		Where("team_id = ? AND date < ? AND date >= ?", teamID, before, floor).
		Order("date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying point snapshot: %w", err)
	}
	return &row, nil
}

// ListForTeamInRange returns a team's snapshots between two dates inclusive,
// ordered by date
func (r *PointRepository) ListForTeamInRange(ctx context.Context, teamID uint, from, to time.Time) ([]store.TeamDatePoint, error) {
	var rows []store.TeamDatePoint
	err := r.db.DB().WithContext(ctx).
		Where("team_id = ? AND date >= ? AND date <= ?", teamID, from, to).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying point snapshots: %w", err)
	}
	return rows, nil
}

// UpsertBatch inserts or replaces snapshots keyed by (team, date)
func (r *PointRepository) UpsertBatch(ctx context.Context, rows []store.TeamDatePoint) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"wins", "losses", "otl", "sol", "total_points"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upserting point snapshots: %w", err)
	}
	return nil
}

// DeleteInRange removes every team's snapshots between two dates inclusive
func (r *PointRepository) DeleteInRange(ctx context.Context, from, to time.Time) error {
	err := r.db.DB().WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Delete(&store.TeamDatePoint{}).Error
	if err != nil {
		return fmt.Errorf("deleting point snapshots: %w", err)
	}
	return nil
}

// DeleteAll clears the aggregate table ahead of a full rebuild
func (r *PointRepository) DeleteAll(ctx context.Context) error {
	err := r.db.DB().WithContext(ctx).
		Where("1 = 1").
		Delete(&store.TeamDatePoint{}).Error
	if err != nil {
		return fmt.Errorf("clearing point snapshots: %w", err)
	}
	return nil
}
