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

// DateRepository handles the dim_date season calendar
type DateRepository struct {
	db *store.Database
}

// NewDateRepository creates a new date repository
func NewDateRepository(db *store.Database) *DateRepository {
	return &DateRepository{db: db}
}

// FindByDate returns the calendar row for a day, or nil when the day is not
// loaded. Time-of-day on the argument is ignored.
func (r *DateRepository) FindByDate(ctx context.Context, date time.Time) (*store.DimDate, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var row store.DimDate
	err := r.db.DB().WithContext(ctx).Where("date = ?", day).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying dim date: %w", err)
	}
	return &row, nil
}

// ListBySeason returns every calendar day of a season in order
func (r *DateRepository) ListBySeason(ctx context.Context, seasonID string) ([]store.DimDate, error) {
	var rows []store.DimDate
	err := r.db.DB().WithContext(ctx).
		Where("season = ?", seasonID).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying season dates: %w", err)
	}
	return rows, nil
}

// Seasons returns the distinct seasons present in the calendar, oldest
// first
func (r *DateRepository) Seasons(ctx context.Context) ([]string, error) {
	var seasons []string
	err := r.db.DB().WithContext(ctx).
		Model(&store.DimDate{}).
		Distinct("season").
		Order("season").
		Pluck("season", &seasons).Error
	if err != nil {
		return nil, fmt.Errorf("querying calendar seasons: %w", err)
	}
	return seasons, nil
}

// UpsertBatch inserts or replaces calendar rows and returns how many rows
// the statement touched
func (r *DateRepository) UpsertBatch(ctx context.Context, rows []store.DimDate) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"season", "season_phase", "day_of_season"}),
	}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("upserting dim dates: %w", res.Error)
	}
	return res.RowsAffected, nil
}
