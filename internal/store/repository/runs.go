package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/boreas/internal/store"
)

// RunRepository handles the ingest run audit trail
type RunRepository struct {
	db *store.Database
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *store.Database) *RunRepository {
	return &RunRepository{db: db}
}

// Create records a freshly started run
func (r *RunRepository) Create(ctx context.Context, run *store.IngestRun) error {
	if err := r.db.DB().WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("creating ingest run: %w", err)
	}
	return nil
}

// Update persists a run's final counters and status
func (r *RunRepository) Update(ctx context.Context, run *store.IngestRun) error {
	if err := r.db.DB().WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("updating ingest run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]*store.IngestRun, error) {
	var runs []*store.IngestRun
	err := r.db.DB().WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("querying ingest runs: %w", err)
	}
	return runs, nil
}
