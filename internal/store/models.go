package store

import (
	"time"
)

// Game statuses. A game moves scheduled -> in_progress -> one of the final
// statuses; postponed sits outside that chain. Terminal statuses are never
// downgraded by later ingests.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusFinal      = "final"
	StatusFinalOT    = "final_ot"
	StatusFinalSO    = "final_so"
	StatusPostponed  = "postponed"
)

// IsTerminal reports whether a status represents a completed game.
func IsTerminal(status string) bool {
	switch status {
	case StatusFinal, StatusFinalOT, StatusFinalSO:
		return true
	}
	return false
}

// Official roles as they appear in the report footer.
const (
	RoleReferee     = "referee"
	RoleLinesperson = "linesperson"
)

// Game is one AHL game keyed by the LeagueStat game id. Scores, attendance
// and shot totals are pointers because a scheduled or in-progress row has
// none of them yet. PointsApplied tracks whether the team_date_points
// aggregates reflect this game's terminal result.
type Game struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement"`
	ExternalID      int        `gorm:"column:game_id;uniqueIndex;not null"`
	GameDate        *time.Time `gorm:"column:game_date;index"`
	SeasonID        string     `gorm:"column:season;size:8;index"`
	AwayTeam        string     `gorm:"column:away_team;size:64"`
	AwayScore       *int       `gorm:"column:away_team_score"`
	HomeTeam        string     `gorm:"column:home_team;size:64"`
	HomeScore       *int       `gorm:"column:home_team_score"`
	Status          string     `gorm:"column:game_status;size:16;index"`
	Attendance      *int       `gorm:"column:game_attendance"`
	Arena           string     `gorm:"column:arena;size:64"`
	AwayShots       *int       `gorm:"column:away_team_shots"`
	HomeShots       *int       `gorm:"column:home_team_shots"`
	OvertimePeriods int        `gorm:"column:overtime_periods;default:0"`
	Shootout        bool       `gorm:"column:decided_by_shootout;default:false"`
	PointsApplied   bool       `gorm:"column:points_applied;default:false"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

// Goal is one scoring event within a game. Assists is a comma-joined list,
// matching how the report prints it.
type Goal struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	GameID      uint   `gorm:"column:game_id;index;not null"`
	GoalNumber  int    `gorm:"column:goal_number"`
	Period      int    `gorm:"column:period"`
	Team        string `gorm:"column:team;size:32"`
	Scorer      string `gorm:"column:scorer;size:64"`
	SeasonTotal int    `gorm:"column:season_total"`
	Assists     string `gorm:"column:assists;size:128"`
	GameTime    string `gorm:"column:game_time;size:8"`
	PowerPlay   bool   `gorm:"column:power_play;default:false"`
	EmptyNet    bool   `gorm:"column:empty_net;default:false"`
	ShortHanded bool   `gorm:"column:short_handed;default:false"`
}

// Penalty is one infraction within a game.
type Penalty struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement"`
	GameID     uint   `gorm:"column:game_id;index;not null"`
	Period     int    `gorm:"column:period"`
	Player     string `gorm:"column:player;size:64"`
	Team       string `gorm:"column:team;size:16"`
	Infraction string `gorm:"column:infraction;size:64"`
	GameTime   string `gorm:"column:game_time;size:8"`
}

// GameOfficial is a referee or linesperson assignment for a game.
type GameOfficial struct {
	ID     uint   `gorm:"column:id;primaryKey;autoIncrement"`
	GameID uint   `gorm:"column:game_id;index;not null"`
	Role   string `gorm:"column:role;size:16"`
	Name   string `gorm:"column:name;size:64"`
	Number int    `gorm:"column:number"`
}

// UnplayedGame records a probed game id the provider had no data for, so
// repeated scans over the same window stay cheap to reason about. The
// marker is dropped as soon as the id starts serving anything.
type UnplayedGame struct {
	ExternalID int       `gorm:"column:game_id;primaryKey"`
	FirstSeen  time.Time `gorm:"column:first_seen"`
}

// Conference is one of the league's two conferences.
type Conference struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:16;uniqueIndex"`
}

// Division groups teams within a conference.
type Division struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string `gorm:"column:name;size:16;uniqueIndex"`
	ConferenceID uint   `gorm:"column:conference_id"`
}

// Franchise is the continuing business entity behind a team, surviving
// relocations and renames.
type Franchise struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;size:64;uniqueIndex"`
	YearFounded int    `gorm:"column:year_founded"`
}

// Team is an active club. Name matches the full team string the game
// reports use, which is how games join back to teams.
type Team struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;size:64;uniqueIndex"`
	DivisionID  *uint  `gorm:"column:division_id"`
	FranchiseID *uint  `gorm:"column:franchise_id"`
	YearFounded int    `gorm:"column:year_founded"`
}

// Arena is a home building. Coordinates start at zero and are filled in by
// the wikipedia enrichment pass.
type Arena struct {
	ID        uint    `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string  `gorm:"column:name;size:64;uniqueIndex"`
	Latitude  float64 `gorm:"column:latitude;default:0"`
	Longitude float64 `gorm:"column:longitude;default:0"`
	TeamID    *uint   `gorm:"column:team_id"`
	Capacity  int     `gorm:"column:capacity"`
	Opened    int     `gorm:"column:opened"`
}

// Season is one league year, e.g. "2023-24".
type Season struct {
	ID      string `gorm:"column:season;primaryKey;size:8"`
	Current bool   `gorm:"column:current_yn;default:false"`
}

// DimDate is the season calendar: one row per in-season day, carrying which
// season and phase the day belongs to and its 1-based ordinal within the
// phase. Games and point aggregates join to it by date.
type DimDate struct {
	Date        time.Time `gorm:"column:date;primaryKey"`
	Season      string    `gorm:"column:season;size:16;index"`
	SeasonPhase string    `gorm:"column:season_phase;size:16"`
	DayOfSeason int       `gorm:"column:day_of_season"`
}

// TeamDatePoint is the cumulative standings snapshot for one team on one
// calendar day. Counters reset at season start; TotalPoints is always
// wins*2 + otl + sol.
type TeamDatePoint struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	TeamID         uint      `gorm:"column:team_id;not null;uniqueIndex:idx_team_date"`
	Date           time.Time `gorm:"column:date;not null;uniqueIndex:idx_team_date"`
	Wins           int       `gorm:"column:wins;default:0"`
	Losses         int       `gorm:"column:losses;default:0"`
	OvertimeLosses int       `gorm:"column:otl;default:0"`
	ShootoutLosses int       `gorm:"column:sol;default:0"`
	TotalPoints    int       `gorm:"column:total_points;default:0"`
}

// IngestRun is the audit record for one updater invocation.
type IngestRun struct {
	RunID      string     `gorm:"column:run_id;primaryKey;size:36"`
	Kind       string     `gorm:"column:kind;size:16"`
	Lookback   int        `gorm:"column:lookback"`
	Span       int        `gorm:"column:span"`
	StartID    int        `gorm:"column:start_id"`
	EndID      int        `gorm:"column:end_id"`
	Scanned    int        `gorm:"column:scanned"`
	Upserted   int        `gorm:"column:upserted"`
	Unchanged  int        `gorm:"column:unchanged"`
	Scheduled  int        `gorm:"column:scheduled"`
	NoData     int        `gorm:"column:no_data"`
	Failed     int        `gorm:"column:failed"`
	Status     string     `gorm:"column:status;size:16"`
	LastError  string     `gorm:"column:last_error;size:512"`
	StartedAt  time.Time  `gorm:"column:started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
}

// IngestRun statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

func (Game) TableName() string          { return "games" }
func (Goal) TableName() string          { return "goals" }
func (Penalty) TableName() string       { return "penalties" }
func (GameOfficial) TableName() string  { return "officials" }
func (UnplayedGame) TableName() string  { return "unplayed_games" }
func (Conference) TableName() string    { return "conference" }
func (Division) TableName() string      { return "division" }
func (Franchise) TableName() string     { return "franchise" }
func (Team) TableName() string          { return "team" }
func (Arena) TableName() string         { return "arena" }
func (Season) TableName() string        { return "season" }
func (DimDate) TableName() string       { return "dim_date" }
func (TeamDatePoint) TableName() string { return "team_date_points" }
func (IngestRun) TableName() string     { return "ingest_runs" }
