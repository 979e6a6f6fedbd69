package leaguestat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The whole report sits on a single line of the HTML document, delimited by
// <br /> tags. These sentinels replace it when the id has no data.
const (
	noGameSentinel       = `{"error": "No such game"}`
	notAvailableSentinel = "This game is not available."
)

const reportDateLayout = "Monday, January 2, 2006"

var (
	headerSplitRe = regexp.MustCompile(` at | - `)
	scoreRe       = regexp.MustCompile(`\d+`)
	periodRe      = regexp.MustCompile(`^(\d+)(?:st|nd|rd|th)\s+Period`)
	overtimeRe    = regexp.MustCompile(`(\d+)OT`)
	officialRe    = regexp.MustCompile(`^(.+?)\s+\((\d+)\)$`)
	goalRe        = regexp.MustCompile(`(\d+),\s+([\p{L}\p{N}_]+),\s+([\p{L}\p{N}_]+)\s+(\d+)\s+\(([^)]*)\),\s+(\d+:\d+)\s*((?:\([^)]*\))*)`)
	penaltyRe     = regexp.MustCompile(`([\p{L}\p{N}_]+)\s+([\p{L}\p{N}_]+)\s+\(([^)]+)\),\s+(\d+:\d+)`)
)

// ParseReport turns a raw report document into a Report. It returns
// ErrNoGame or ErrNotYetPlayed when the body carries one of the provider's
// sentinel payloads instead of a report.
func ParseReport(body string) (*Report, error) {
	lines := extractLines(body)
	if len(lines) == 0 {
		return nil, ErrNoGame
	}
	switch strings.TrimSpace(lines[0]) {
	case noGameSentinel:
		return nil, ErrNoGame
	case notAvailableSentinel:
		return nil, ErrNotYetPlayed
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("malformed report: %d lines", len(lines))
	}

	report := &Report{}
	if err := parseHeader(lines[0], report); err != nil {
		return nil, err
	}
	if err := parseDateline(lines[1], report); err != nil {
		return nil, err
	}

	report.Attendance = parseAttendance(lines)
	report.AwayShots, report.HomeShots = parseShots(lines)
	report.Goals, report.Penalties = parseGoalsAndPenalties(lines)
	report.OvertimePeriods = detectOvertimePeriods(report.Status)
	report.Shootout = detectShootout(report.Status)

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "Referees-"):
			report.Referees = parseOfficials(line)
		case strings.HasPrefix(line, "Linesmen-"), strings.HasPrefix(line, "Linesman-"):
			report.Linesmen = parseOfficials(line)
		}
	}

	return report, nil
}

// extractLines pulls the report payload out of the HTML document. The
// payload is the first non-markup line, split on its <br /> delimiters.
func extractLines(body string) []string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "<") {
			continue
		}
		parts := strings.Split(line, "<br />")
		lines := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				lines = append(lines, p)
			}
		}
		return lines
	}
	return nil
}

// parseHeader reads the "{away} {score} at {home} {score} - Status: {x}"
// summary line.
func parseHeader(line string, report *Report) error {
	parts := headerSplitRe.Split(line, -1)
	if len(parts) < 3 {
		return fmt.Errorf("malformed header line: %q", line)
	}

	awayTeam, awayScore, err := splitTeamScore(parts[0])
	if err != nil {
		return fmt.Errorf("parsing away side of %q: %w", line, err)
	}
	homeTeam, homeScore, err := splitTeamScore(parts[1])
	if err != nil {
		return fmt.Errorf("parsing home side of %q: %w", line, err)
	}

	report.AwayTeam = awayTeam
	report.AwayScore = awayScore
	report.HomeTeam = homeTeam
	report.HomeScore = homeScore
	report.Status = strings.TrimSpace(strings.Replace(parts[2], "Status: ", "", 1))
	return nil
}

// splitTeamScore separates "Rochester Americans 7" into name and score.
// The score is the first digit run, which is safe because team names never
// contain digits.
func splitTeamScore(chunk string) (string, int, error) {
	loc := scoreRe.FindStringIndex(chunk)
	if loc == nil {
		return "", 0, fmt.Errorf("no score in %q", chunk)
	}
	score, err := strconv.Atoi(chunk[loc[0]:loc[1]])
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(chunk[:loc[0]]), score, nil
}

// parseDateline reads the "{date} - {arena}" line. The report sometimes
// double-spaces the day number, so whitespace is collapsed before parsing.
func parseDateline(line string, report *Report) error {
	parts := strings.SplitN(line, " - ", 2)

	dateStr := strings.Join(strings.Fields(parts[0]), " ")
	date, err := time.Parse(reportDateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("parsing report date %q: %w", parts[0], err)
	}
	report.Date = date

	if len(parts) > 1 {
		report.Arena = strings.TrimSpace(parts[1])
	}
	return nil
}

// parseAttendance reads the "A-6,212" line, third from the end. A missing
// or malformed line counts as zero.
func parseAttendance(lines []string) int {
	if len(lines) < 3 {
		return 0
	}
	raw := strings.TrimSpace(lines[len(lines)-3])
	raw = strings.ReplaceAll(raw, "A-", "")
	raw = strings.ReplaceAll(raw, ",", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// parseShots reads "Shots on Goal-Rochester 8-14-9-31. Toronto 9-20-9-38."
// taking the total after the last dash of each sentence, away team first.
func parseShots(lines []string) (*int, *int) {
	for _, line := range lines {
		if !strings.HasPrefix(line, "Shots on Goal-") {
			continue
		}
		rest := strings.TrimPrefix(line, "Shots on Goal-")

		var totals []int
		for _, chunk := range strings.Split(rest, ".") {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}
			idx := strings.LastIndex(chunk, "-")
			if idx < 0 || idx+1 >= len(chunk) {
				continue
			}
			n, err := strconv.Atoi(chunk[idx+1:])
			if err != nil {
				continue
			}
			totals = append(totals, n)
		}
		if len(totals) >= 2 {
			return &totals[0], &totals[1]
		}
		return nil, nil
	}
	return nil, nil
}

// parseOfficials reads a "Referees-Cody Beach (45), Beau Halkidis (48)."
// line into name and number pairs.
func parseOfficials(line string) []Official {
	parts := strings.SplitN(line, "-", 2)
	if len(parts) < 2 {
		return nil
	}
	entries := strings.TrimSuffix(strings.TrimSpace(parts[1]), ".")

	var officials []Official
	for _, entry := range strings.Split(entries, ",") {
		m := officialRe.FindStringSubmatch(strings.TrimSpace(entry))
		if m == nil {
			continue
		}
		number, _ := strconv.Atoi(m[2])
		officials = append(officials, Official{Name: m[1], Number: number})
	}
	return officials
}

// parseGoalsAndPenalties walks the period-by-period lines. Overtime lines
// are labeled "OT Period" without a leading number, so events there keep
// the last numbered period.
func parseGoalsAndPenalties(lines []string) ([]GoalEvent, []PenaltyEvent) {
	var goals []GoalEvent
	var penalties []PenaltyEvent

	period := 0
	for _, line := range lines {
		if m := periodRe.FindStringSubmatch(line); m != nil {
			period, _ = strconv.Atoi(m[1])
		}
		if !strings.Contains(line, "Period-") {
			continue
		}
		rest := strings.SplitN(line, "Period-", 2)[1]
		goalsPart, penaltiesPart, _ := strings.Cut(rest, "Penalties-")

		for _, m := range goalRe.FindAllStringSubmatch(goalsPart, -1) {
			number, _ := strconv.Atoi(m[1])
			total, _ := strconv.Atoi(m[4])

			var assists []string
			for _, a := range strings.Split(m[5], ",") {
				if a = strings.TrimSpace(a); a != "" {
					assists = append(assists, a)
				}
			}

			flags := m[7]
			goals = append(goals, GoalEvent{
				Number:      number,
				Period:      period,
				Team:        m[2],
				Scorer:      m[3],
				SeasonTotal: total,
				Assists:     assists,
				Time:        m[6],
				PowerPlay:   strings.Contains(flags, "(PP)"),
				EmptyNet:    strings.Contains(flags, "(EN)"),
				ShortHanded: strings.Contains(flags, "(SH)"),
			})
		}

		if penaltiesPart != "" {
			section, _, _ := strings.Cut(penaltiesPart, ".")
			for _, m := range penaltyRe.FindAllStringSubmatch(section, -1) {
				penalties = append(penalties, PenaltyEvent{
					Period:     period,
					Player:     m[1],
					Team:       m[2],
					Infraction: m[3],
					Time:       m[4],
				})
			}
		}
	}
	return goals, penalties
}

// detectOvertimePeriods reads the overtime count from a status like
// "Final/2OT". A bare "OT" is one period.
func detectOvertimePeriods(status string) int {
	if !strings.Contains(status, "OT") {
		return 0
	}
	if m := overtimeRe.FindStringSubmatch(status); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 1
}

// detectShootout reports whether a status marks a shootout decision.
func detectShootout(status string) bool {
	return strings.Contains(status, "SO") || strings.Contains(strings.ToLower(status), "shootout")
}
