package season

import (
	"fmt"
	"time"
)

// Season phases.
const (
	PhaseRegular = "regular"
	PhasePost    = "post"
)

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the window. Time-of-day is
// ignored.
func (w Window) Contains(d time.Time) bool {
	day := Normalize(d)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Definition is one league year's calendar. Post is nil for years without
// playoffs (the 2019-20 season was cut short, 2020-21 ran a shortened
// schedule with no Calder Cup).
type Definition struct {
	ID      string
	Regular Window
	Post    *Window
}

// Bounds returns the full span of the season, regular season start through
// the last playoff day.
func (d Definition) Bounds() Window {
	w := d.Regular
	if d.Post != nil {
		w.End = d.Post.End
	}
	return w
}

// Day is one in-season calendar day. DayOfSeason is 1-based within the
// phase.
type Day struct {
	Date        time.Time
	Season      string
	Phase       string
	DayOfSeason int
}

var calendar = []Definition{
	def("2005-06", "2005-10-05", "2006-04-16", "2006-04-18", "2006-06-15"),
	def("2006-07", "2006-10-04", "2007-04-15", "2007-04-18", "2007-06-07"),
	def("2007-08", "2007-10-03", "2008-04-13", "2008-04-16", "2008-06-10"),
	def("2008-09", "2008-10-08", "2009-04-12", "2009-04-15", "2009-06-12"),
	def("2009-10", "2009-10-02", "2010-04-11", "2010-04-14", "2010-06-16"),
	def("2010-11", "2010-10-08", "2011-04-10", "2011-04-13", "2011-06-16"),
	def("2011-12", "2011-10-07", "2012-04-15", "2012-04-19", "2012-06-16"),
	def("2012-13", "2012-10-12", "2013-04-21", "2013-04-26", "2013-06-18"),
	def("2013-14", "2013-10-04", "2014-04-19", "2014-04-23", "2014-06-17"),
	def("2014-15", "2014-10-10", "2015-04-19", "2015-04-22", "2015-06-13"),
	def("2015-16", "2015-10-09", "2016-04-17", "2016-04-20", "2016-06-16"),
	def("2016-17", "2016-10-14", "2017-04-15", "2017-04-20", "2017-06-13"),
	def("2017-18", "2017-10-06", "2018-04-15", "2018-04-19", "2018-06-16"),
	def("2018-19", "2018-10-05", "2019-04-15", "2019-04-17", "2019-06-08"),
	regularOnly("2019-20", "2019-10-04", "2020-03-12"),
	regularOnly("2020-21", "2021-02-05", "2021-05-20"),
	def("2021-22", "2021-10-15", "2022-04-30", "2022-05-02", "2022-06-25"),
	def("2022-23", "2022-10-14", "2023-04-16", "2023-04-18", "2023-06-21"),
	def("2023-24", "2023-10-13", "2024-04-21", "2024-04-22", "2024-06-30"),
	def("2024-25", "2024-10-11", "2025-04-20", "2025-04-21", "2025-06-30"),
}

// Definitions returns every known season, oldest first.
func Definitions() []Definition {
	return calendar
}

// ByID looks up a season by its identifier, e.g. "2022-23".
func ByID(id string) (Definition, bool) {
	for _, d := range calendar {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Find returns the season and phase a date falls in. ok is false for dates
// outside every season, including the off-days between a regular season and
// its playoffs.
func Find(d time.Time) (string, string, bool) {
	for _, def := range calendar {
		if def.Regular.Contains(d) {
			return def.ID, PhaseRegular, true
		}
		if def.Post != nil && def.Post.Contains(d) {
			return def.ID, PhasePost, true
		}
	}
	return "", "", false
}

// Days enumerates every in-season day of a season in order, numbering each
// phase from 1.
func Days(id string) ([]Day, error) {
	def, ok := ByID(id)
	if !ok {
		return nil, fmt.Errorf("unknown season: %s", id)
	}

	days := enumerate(def.ID, PhaseRegular, def.Regular)
	if def.Post != nil {
		days = append(days, enumerate(def.ID, PhasePost, *def.Post)...)
	}
	return days, nil
}

// Normalize strips the time-of-day so dates compare and join cleanly.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func enumerate(seasonID, phase string, w Window) []Day {
	var days []Day
	n := 0
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		n++
		days = append(days, Day{Date: d, Season: seasonID, Phase: phase, DayOfSeason: n})
	}
	return days
}

func def(id, regStart, regEnd, postStart, postEnd string) Definition {
	return Definition{
		ID:      id,
		Regular: Window{Start: mustDate(regStart), End: mustDate(regEnd)},
		Post:    &Window{Start: mustDate(postStart), End: mustDate(postEnd)},
	}
}

func regularOnly(id, regStart, regEnd string) Definition {
	return Definition{
		ID:      id,
		Regular: Window{Start: mustDate(regStart), End: mustDate(regEnd)},
	}
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("bad calendar date %q: %v", s, err))
	}
	return t
}
