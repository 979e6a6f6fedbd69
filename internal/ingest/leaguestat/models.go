package leaguestat

import (
	"errors"
	"time"
)

// The report endpoint signals these outcomes in the response body rather
// than the HTTP status, so the client surfaces them as sentinel errors.
var (
	// ErrNoGame means the provider has no report at all for the id.
	ErrNoGame = errors.New("no such game")

	// ErrNotYetPlayed means the id exists on the schedule but its report
	// is not available yet.
	ErrNotYetPlayed = errors.New("game not yet played")
)

// Report is one parsed text game report.
type Report struct {
	GameID          int
	AwayTeam        string
	AwayScore       int
	HomeTeam        string
	HomeScore       int
	Status          string // raw wire status, e.g. "Final SO"
	Date            time.Time
	Arena           string
	Attendance      int
	AwayShots       *int
	HomeShots       *int
	OvertimePeriods int
	Shootout        bool
	Goals           []GoalEvent
	Penalties       []PenaltyEvent
	Referees        []Official
	Linesmen        []Official
}

// GoalEvent is one scoring line from the period-by-period summary.
// SeasonTotal is the scorer's goal count printed next to the name.
type GoalEvent struct {
	Number      int
	Period      int
	Team        string
	Scorer      string
	SeasonTotal int
	Assists     []string
	Time        string
	PowerPlay   bool
	EmptyNet    bool
	ShortHanded bool
}

// PenaltyEvent is one infraction line. Team is the short form the report
// uses, e.g. "Roc".
type PenaltyEvent struct {
	Period     int
	Player     string
	Team       string
	Infraction string
	Time       string
}

// Official is a referee or linesperson with their sweater number.
type Official struct {
	Name   string
	Number int
}
