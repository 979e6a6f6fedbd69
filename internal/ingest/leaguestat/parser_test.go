package leaguestat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Payload of the Rochester at Toronto report from May 13, 2023, in the
// order the provider emits it. Blank entries mirror the doubled <br />
// delimiters of the real document.
var reportLines = []string{
	"Rochester Americans 7 at Toronto Marlies 4 - Status: Final",
	"Saturday, May  13, 2023 - Coca-Cola Coliseum",
	"",
	"Rochester 1 4 2 - 7",
	"Toronto 0 2 2 - 4",
	"",
	"1st Period-1, Rochester, Kulich 5 (Jobst, Prow), 9:57 (PP). Penalties-Shaw Tor (tripping), 8:00; Clifford Tor (roughing), 15:09; Bartkowski Roc (tripping), 17:30; Jobst Roc (cross-checking), 20:00.",
	"",
	"2nd Period-2, Toronto, Abruzzese 2 (Hollowell, Shaw), 1:20 (PP). 3, Rochester, Davies 1 (Malone, Pilut), 4:28. 4, Rochester, Rousek 1 (Jobst), 5:58. 5, Rochester, Malone 2 (Cecconi, Warren), 7:01. 6, Rochester, Cecconi 1 (Cederqvist, Mersch), 7:13. 7, Toronto, Ellis 1 (Niemelä, Zohorna), 10:08 (PP). Penalties-Hoefenmayer Tor (cross-checking), 2:25; Bartkowski Roc (hooking), 8:19; Jobst Roc (roughing), 16:01.",
	"",
	"3rd Period-8, Toronto, Holmberg 3 (Abruzzese, Hollowell), 5:03 (PP). 9, Rochester, Mersch 5 (Malone, Rosen), 7:12 (PP). 10, Rochester, Warren 1 (Murray, Jobst), 16:15 (EN). 11, Toronto, Steeves 1 (Ellis, Zohorna), 18:22 (PP). Penalties-Chyzowski Tor (interference), 2:14; served by Eliot Roc (bench minor - too many men), 4:43; Blandisi Tor (high-sticking), 5:43; Eliot Roc (boarding), 16:43.",
	"",
	"Shots on Goal-Rochester 8-14-9-31. Toronto 9-20-9-38.",
	"Power Play Opportunities-Rochester 2 / 5; Toronto 4 / 6.",
	"Goalies-Rochester, Subban 7-4 (38 shots-34 saves). Toronto, Källgren 2-1 (19 shots-15 saves); Petruzzelli 1-2 (11 shots-9 saves).",
	"A-6,212",
	"Referees-Cody Beach (45), Beau Halkidis (48).",
	"Linesmen-Ryan Jackson (84), Joseph Mahon (89).",
}

// reportHTML wraps a payload in the provider's document frame, the whole
// report on one indented line inside <body>.
func reportHTML(payload []string) string {
	var b strings.Builder
	b.WriteString("<html>\n\n<head>\n")
	b.WriteString("    <title>Official statistics powered by LeagueStat.com</title>\n")
	b.WriteString("    <META http-equiv=\"Content-Type\" content=\"text/html; charset=UTF-8\">\n")
	b.WriteString("</head>\n\n<body>\n\n    <br clear=\"all\">\n    ")
	b.WriteString(strings.Join(payload, "<br />"))
	b.WriteString("\n</body>\n\n</html>")
	return b.String()
}

func statusReport(t *testing.T, status string) *Report {
	t.Helper()
	payload := []string{
		"Rochester Americans 2 at Toronto Marlies 3 - Status: " + status,
		"Saturday, May  13, 2023 - Coca-Cola Coliseum",
	}
	report, err := ParseReport(reportHTML(payload))
	require.NoError(t, err)
	return report
}

func TestParseReportHeader(t *testing.T) {
	report, err := ParseReport(reportHTML(reportLines))
	require.NoError(t, err)

	require.Equal(t, "Rochester Americans", report.AwayTeam)
	require.Equal(t, 7, report.AwayScore)
	require.Equal(t, "Toronto Marlies", report.HomeTeam)
	require.Equal(t, 4, report.HomeScore)
	require.Equal(t, "Final", report.Status)
	require.Equal(t, 0, report.OvertimePeriods)
	require.False(t, report.Shootout)
}

func TestParseReportDateline(t *testing.T) {
	report, err := ParseReport(reportHTML(reportLines))
	require.NoError(t, err)

	require.Equal(t, time.Date(2023, 5, 13, 0, 0, 0, 0, time.UTC), report.Date)
	require.Equal(t, "Coca-Cola Coliseum", report.Arena)
}

func TestParseReportFullMonthDate(t *testing.T) {
	payload := []string{
		"Utica Comets 2 at Syracuse Crunch 1 - Status: Final/SO",
		"Friday, October 14, 2022 - Upstate Medical University Arena",
	}
	report, err := ParseReport(reportHTML(payload))
	require.NoError(t, err)

	require.Equal(t, time.Date(2022, 10, 14, 0, 0, 0, 0, time.UTC), report.Date)
	require.Equal(t, "Upstate Medical University Arena", report.Arena)
}

func TestParseReportAttendanceAndShots(t *testing.T) {
	report, err := ParseReport(reportHTML(reportLines))
	require.NoError(t, err)

	require.Equal(t, 6212, report.Attendance)
	require.NotNil(t, report.AwayShots)
	require.NotNil(t, report.HomeShots)
	require.Equal(t, 31, *report.AwayShots)
	require.Equal(t, 38, *report.HomeShots)
}

func TestParseReportGoals(t *testing.T) {
	report, err := ParseReport(reportHTML(reportLines))
	require.NoError(t, err)
	require.Len(t, report.Goals, 11)

	first := report.Goals[0]
	require.Equal(t, 1, first.Number)
	require.Equal(t, 1, first.Period)
	require.Equal(t, "Rochester", first.Team)
	require.Equal(t, "Kulich", first.Scorer)
	require.Equal(t, 5, first.SeasonTotal)
	require.Equal(t, []string{"Jobst", "Prow"}, first.Assists)
	require.Equal(t, "9:57", first.Time)
	require.True(t, first.PowerPlay)
	require.False(t, first.EmptyNet)
	require.False(t, first.ShortHanded)

	// Assist names keep their diacritics.
	seventh := report.Goals[6]
	require.Equal(t, "Ellis", seventh.Scorer)
	require.Equal(t, []string{"Niemelä", "Zohorna"}, seventh.Assists)

	emptyNet := report.Goals[9]
	require.Equal(t, 10, emptyNet.Number)
	require.Equal(t, "Warren", emptyNet.Scorer)
	require.True(t, emptyNet.EmptyNet)
	require.False(t, emptyNet.PowerPlay)

	byPeriod := map[int]int{}
	for _, g := range report.Goals {
		byPeriod[g.Period]++
	}
	require.Equal(t, map[int]int{1: 1, 2: 6, 3: 4}, byPeriod)
}

func TestParseReportPenalties(t *testing.T) {
	report, err := ParseReport(reportHTML(reportLines))
	require.NoError(t, err)
	require.Len(t, report.Penalties, 11)

	first := report.Penalties[0]
	require.Equal(t, 1, first.Period)
	require.Equal(t, "Shaw", first.Player)
	require.Equal(t, "Tor", first.Team)
	require.Equal(t, "tripping", first.Infraction)
	require.Equal(t, "8:00", first.Time)

	// A bench minor credits the serving player.
	bench := report.Penalties[8]
	require.Equal(t, 3, bench.Period)
	require.Equal(t, "Eliot", bench.Player)
	require.Equal(t, "Roc", bench.Team)
	require.Equal(t, "bench minor - too many men", bench.Infraction)
	require.Equal(t, "4:43", bench.Time)
}

func TestParseReportOfficials(t *testing.T) {
	report, err := ParseReport(reportHTML(reportLines))
	require.NoError(t, err)

	require.Equal(t, []Official{
		{Name: "Cody Beach", Number: 45},
		{Name: "Beau Halkidis", Number: 48},
	}, report.Referees)
	require.Equal(t, []Official{
		{Name: "Ryan Jackson", Number: 84},
		{Name: "Joseph Mahon", Number: 89},
	}, report.Linesmen)
}

func TestParseReportStatusVariants(t *testing.T) {
	cases := []struct {
		status   string
		overtime int
		shootout bool
	}{
		{"Final", 0, false},
		{"Final OT", 1, false},
		{"Final/OT", 1, false},
		{"Final/2OT", 2, false},
		{"Final/3OT", 3, false},
		{"Final/SO", 0, true},
		{"Final SO", 0, true},
	}

	for _, tc := range cases {
		report := statusReport(t, tc.status)
		require.Equal(t, tc.status, report.Status)
		require.Equal(t, tc.overtime, report.OvertimePeriods, "status %q", tc.status)
		require.Equal(t, tc.shootout, report.Shootout, "status %q", tc.status)
	}
}

func TestParseReportNoSuchGame(t *testing.T) {
	// The provider truncates the document after the sentinel line.
	body := "<html>\n\n<head>\n    <title>Official statistics powered by LeagueStat.com</title>\n" +
		"</head>\n\n<body>\n\n    <br clear=\"all\">\n    " + `{"error": "No such game"}`
	_, err := ParseReport(body)
	require.ErrorIs(t, err, ErrNoGame)
}

func TestParseReportNotYetPlayed(t *testing.T) {
	_, err := ParseReport(reportHTML([]string{"This game is not available."}))
	require.ErrorIs(t, err, ErrNotYetPlayed)
}

func TestParseReportEmptyBody(t *testing.T) {
	_, err := ParseReport("<html>\n<body>\n</body>\n</html>")
	require.ErrorIs(t, err, ErrNoGame)
}

func TestParseReportMalformedHeader(t *testing.T) {
	_, err := ParseReport(reportHTML([]string{"not a header line", "second line"}))
	require.Error(t, err)
}
