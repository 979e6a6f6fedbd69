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

// gameColumns are the columns a re-ingest is allowed to overwrite.
var gameColumns = []string{
	"game_date", "season", "away_team", "away_team_score",
	"home_team", "home_team_score", "game_status", "game_attendance",
	"arena", "away_team_shots", "home_team_shots",
	"overtime_periods", "decided_by_shootout", "points_applied", "updated_at",
}

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// GetByExternalID finds a game by its LeagueStat game id
func (r *GameRepository) GetByExternalID(ctx context.Context, externalID int) (*store.Game, error) {
	var game store.Game
	err := r.db.DB().WithContext(ctx).Where("game_id = ?", externalID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("game not found: %d", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return &game, nil
}

// FindByExternalID is like GetByExternalID but returns nil without error
// when no row exists yet
func (r *GameRepository) FindByExternalID(ctx context.Context, externalID int) (*store.Game, error) {
	var game store.Game
	err := r.db.DB().WithContext(ctx).Where("game_id = ?", externalID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return &game, nil
}

// MostRecentExternalID returns the highest game id stored so far, or 0 when
// the games table is empty
func (r *GameRepository) MostRecentExternalID(ctx context.Context) (int, error) {
	var max int
	err := r.db.DB().WithContext(ctx).
		Model(&store.Game{}).
		Select("COALESCE(MAX(game_id), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("querying most recent game id: %w", err)
	}
	return max, nil
}

// Upsert inserts or updates a game row keyed by its external game id. The
// struct's ID and CreatedAt are refreshed from the stored row.
func (r *GameRepository) Upsert(ctx context.Context, game *store.Game) error {
	return r.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertGame(tx, game)
	})
}

// UpsertWithDetails upserts a game and replaces its goal, penalty and
// official rows in a single transaction, so a re-ingested report never
// leaves half-updated details behind.
func (r *GameRepository) UpsertWithDetails(ctx context.Context, game *store.Game, goals []store.Goal, penalties []store.Penalty, officials []store.GameOfficial) error {
	return r.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertGame(tx, game); err != nil {
			return err
		}

		if err := tx.Where("game_id = ?", game.ID).Delete(&store.Goal{}).Error; err != nil {
			return fmt.Errorf("clearing goals: %w", err)
		}
		if err := tx.Where("game_id = ?", game.ID).Delete(&store.Penalty{}).Error; err != nil {
			return fmt.Errorf("clearing penalties: %w", err)
		}
		if err := tx.Where("game_id = ?", game.ID).Delete(&store.GameOfficial{}).Error; err != nil {
			return fmt.Errorf("clearing officials: %w", err)
		}

		for i := range goals {
			goals[i].ID = 0
			goals[i].GameID = game.ID
		}
		for i := range penalties {
			penalties[i].ID = 0
			penalties[i].GameID = game.ID
		}
		for i := range officials {
			officials[i].ID = 0
			officials[i].GameID = game.ID
		}

		if len(goals) > 0 {
			if err := tx.Create(&goals).Error; err != nil {
				return fmt.Errorf("inserting goals: %w", err)
			}
		}
		if len(penalties) > 0 {
			if err := tx.Create(&penalties).Error; err != nil {
				return fmt.Errorf("inserting penalties: %w", err)
			}
		}
		if len(officials) > 0 {
			if err := tx.Create(&officials).Error; err != nil {
				return fmt.Errorf("inserting officials: %w", err)
			}
		}
		return nil
	})
}

func upsertGame(tx *gorm.DB, game *store.Game) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns(gameColumns),
	}).Create(game).Error
	if err != nil {
		return fmt.Errorf("upserting game: %w", err)
	}

	// On a conflict-update SQLite does not report a fresh rowid, so reload
	// to get the stable primary key.
	var saved store.Game
	if err := tx.Where("game_id = ?", game.ExternalID).First(&saved).Error; err != nil {
		return fmt.Errorf("reloading game: %w", err)
	}
	game.ID = saved.ID
	game.CreatedAt = saved.CreatedAt
	return nil
}

// SetPointsApplied flips the aggregate bookkeeping flag on a game
func (r *GameRepository) SetPointsApplied(ctx context.Context, gameID uint, applied bool) error {
	err := r.db.DB().WithContext(ctx).
		Model(&store.Game{}).
		Where("id = ?", gameID).
		Update("points_applied", applied).Error
	if err != nil {
		return fmt.Errorf("updating points_applied: %w", err)
	}
	return nil
}

// MarkSeasonApplied flags every completed game of a season as reflected in
// the aggregates, after a full season rebuild
func (r *GameRepository) MarkSeasonApplied(ctx context.Context, seasonID string) error {
	err := r.db.DB().WithContext(ctx).
		Model(&store.Game{}).
		Where("season = ?", seasonID).
		Where("game_status IN ?", []string{store.StatusFinal, store.StatusFinalOT, store.StatusFinalSO}).
		Update("points_applied", true).Error
	if err != nil {
		return fmt.Errorf("marking season applied: %w", err)
	}
	return nil
}

// MarkUnplayed records a probed game id the provider had no report for
func (r *GameRepository) MarkUnplayed(ctx context.Context, externalID int) error {
	row := store.UnplayedGame{ExternalID: externalID, FirstSeen: time.Now().UTC()}
	err := r.db.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("recording unplayed game: %w", err)
	}
	return nil
}

// ClearUnplayed drops the no-data marker for an id once the provider
// starts serving something for it
func (r *GameRepository) ClearUnplayed(ctx context.Context, externalID int) error {
	err := r.db.DB().WithContext(ctx).
		Where("game_id = ?", externalID).
		Delete(&store.UnplayedGame{}).Error
	if err != nil {
		return fmt.Errorf("clearing unplayed game: %w", err)
	}
	return nil
}

// TerminalForTeamInRange returns a team's completed games in a season
// between two dates inclusive, ordered by date
func (r *GameRepository) TerminalForTeamInRange(ctx context.Context, team, seasonID string, from, to time.Time) ([]*store.Game, error) {
	var games []*store.Game
	err := r.db.DB().WithContext(ctx).
		Where("season = ?", seasonID).
		Where("game_status IN ?", []string{store.StatusFinal, store.StatusFinalOT, store.StatusFinalSO}).
		Where("home_team = ? OR away_team = ?", team, team).
		Where("game_date >= ? AND game_date <= ?", from, to).
		Order("game_date").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("querying team games: %w", err)
	}
	return games, nil
}

// ListUnapplied returns completed games whose point aggregates are still
// pending, oldest first
func (r *GameRepository) ListUnapplied(ctx context.Context) ([]*store.Game, error) {
	var games []*store.Game
	err := r.db.DB().WithContext(ctx).
		Where("game_status IN ?", []string{store.StatusFinal, store.StatusFinalOT, store.StatusFinalSO}).
		Where("points_applied = ?", false).
		Order("game_date").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("querying unapplied games: %w", err)
	}
	return games, nil
}

// ListMissingShots returns completed games without shot totals, newest first
func (r *GameRepository) ListMissingShots(ctx context.Context) ([]*store.Game, error) {
	var games []*store.Game
	err := r.db.DB().WithContext(ctx).
		Where("game_status IN ?", []string{store.StatusFinal, store.StatusFinalOT, store.StatusFinalSO}).
		Where("home_team_shots IS NULL OR away_team_shots IS NULL").
		Order("game_id DESC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("querying games missing shots: %w", err)
	}
	return games, nil
}

// UpdateShots fills in the shot totals for a game
func (r *GameRepository) UpdateShots(ctx context.Context, externalID int, homeShots, awayShots *int) error {
	err := r.db.DB().WithContext(ctx).
		Model(&store.Game{}).
		Where("game_id = ?", externalID).
		Updates(map[string]any{
			"home_team_shots": homeShots,
			"away_team_shots": awayShots,
		}).Error
	if err != nil {
		return fmt.Errorf("updating shots: %w", err)
	}
	return nil
}

// Goals returns the stored scoring events for a game, in goal order
func (r *GameRepository) Goals(ctx context.Context, gameID uint) ([]store.Goal, error) {
	var goals []store.Goal
	err := r.db.DB().WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("goal_number").
		Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	return goals, nil
}

// Penalties returns the stored penalties for a game
func (r *GameRepository) Penalties(ctx context.Context, gameID uint) ([]store.Penalty, error) {
	var penalties []store.Penalty
	err := r.db.DB().WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("id").
		Find(&penalties).Error
	if err != nil {
		return nil, fmt.Errorf("querying penalties: %w", err)
	}
	return penalties, nil
}

// Officials returns the stored officials for a game
func (r *GameRepository) Officials(ctx context.Context, gameID uint) ([]store.GameOfficial, error) {
	var officials []store.GameOfficial
	err := r.db.DB().WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("id").
		Find(&officials).Error
	if err != nil {
		return nil, fmt.Errorf("querying officials: %w", err)
	}
	return officials, nil
}
