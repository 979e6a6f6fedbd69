package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFind(t *testing.T) {
	cases := []struct {
		name   string
		date   time.Time
		season string
		phase  string
		ok     bool
	}{
		{"regular season opener", date(2022, time.October, 14), "2022-23", PhaseRegular, true},
		{"regular season finale", date(2023, time.April, 16), "2022-23", PhaseRegular, true},
		{"gap day between phases", date(2023, time.April, 17), "", "", false},
		{"first playoff day", date(2023, time.April, 18), "2022-23", PhasePost, true},
		{"playoff game day", date(2023, time.May, 13), "2022-23", PhasePost, true},
		{"last playoff day", date(2023, time.June, 21), "2022-23", PhasePost, true},
		{"offseason", date(2023, time.August, 1), "", "", false},
		{"covid shutdown spring", date(2020, time.June, 1), "", "", false},
		{"shortened season start", date(2021, time.February, 5), "2020-21", PhaseRegular, true},
		{"before first season", date(2005, time.October, 4), "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			season, phase, ok := Find(tc.date)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.season, season)
			require.Equal(t, tc.phase, phase)
		})
	}
}

func TestFindIgnoresTimeOfDay(t *testing.T) {
	season, phase, ok := Find(time.Date(2023, time.May, 13, 19, 5, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, "2022-23", season)
	require.Equal(t, PhasePost, phase)
}

func TestDays(t *testing.T) {
	days, err := Days("2022-23")
	require.NoError(t, err)

	// 185 regular season days plus 65 playoff days.
	require.Len(t, days, 250)

	first := days[0]
	require.Equal(t, date(2022, time.October, 14), first.Date)
	require.Equal(t, PhaseRegular, first.Phase)
	require.Equal(t, 1, first.DayOfSeason)

	lastRegular := days[184]
	require.Equal(t, date(2023, time.April, 16), lastRegular.Date)
	require.Equal(t, PhaseRegular, lastRegular.Phase)
	require.Equal(t, 185, lastRegular.DayOfSeason)

	// Numbering restarts when the playoffs begin.
	firstPost := days[185]
	require.Equal(t, date(2023, time.April, 18), firstPost.Date)
	require.Equal(t, PhasePost, firstPost.Phase)
	require.Equal(t, 1, firstPost.DayOfSeason)

	last := days[len(days)-1]
	require.Equal(t, date(2023, time.June, 21), last.Date)
	require.Equal(t, 65, last.DayOfSeason)
}

func TestDaysRegularOnlySeason(t *testing.T) {
	days, err := Days("2019-20")
	require.NoError(t, err)

	// The season stopped on 2020-03-12, 161 days in.
	require.Len(t, days, 161)
	for _, d := range days {
		require.Equal(t, PhaseRegular, d.Phase)
	}
	require.Equal(t, date(2020, time.March, 12), days[len(days)-1].Date)
}

func TestDaysUnknownSeason(t *testing.T) {
	_, err := Days("1999-00")
	require.Error(t, err)
}

func TestBounds(t *testing.T) {
	full, ok := ByID("2022-23")
	require.True(t, ok)
	require.Equal(t, date(2022, time.October, 14), full.Bounds().Start)
	require.Equal(t, date(2023, time.June, 21), full.Bounds().End)

	short, ok := ByID("2019-20")
	require.True(t, ok)
	require.Equal(t, date(2020, time.March, 12), short.Bounds().End)
}
