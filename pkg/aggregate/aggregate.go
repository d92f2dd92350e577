package aggregate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/artcal/artcal/pkg/event"
	"github.com/artcal/artcal/pkg/grid"
	"github.com/artcal/artcal/pkg/occurrence"
)

const (
	DefaultMaxVisible = 3

	LabelToday    = "Today"
	LabelTomorrow = "Tomorrow"
	AgendaLayout  = "Monday, January 2 2006"
)

// Cell is a grid cell with its occurrences attached. When the grid was
// built with a visibility limit, the occurrences past the limit are kept
// with Hidden set and counted in HiddenCount.
type Cell struct {
	grid.Cell
	Occurrences []occurrence.Occurrence
	HiddenCount int
}

// VisibleOccurrences returns the occurrences not flagged as overflow.
func (c Cell) VisibleOccurrences() []occurrence.Occurrence {
	visible := make([]occurrence.Occurrence, 0, len(c.Occurrences)-c.HiddenCount)
	for _, occ := range c.Occurrences {
		if !occ.Hidden {
			visible = append(visible, occ)
		}
	}
	return visible
}

type AgendaDay struct {
	Date        time.Time
	Label       string
	IsPast      bool
	Occurrences []occurrence.Occurrence
}

// Compare orders occurrences of the same day: all-day first, then by start
// time, then by title. The instance key makes the order total.
func Compare(a, b occurrence.Occurrence) int {
	if a.AllDay() != b.AllDay() {
		if a.AllDay() {
			return -1
		}
		return 1
	}
	if !a.AllDay() {
		if c := cmp.Compare(a.StartTime.Minutes(), b.StartTime.Minutes()); c != 0 {
			return c
		}
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return strings.Compare(a.InstanceKey, b.InstanceKey)
}

// ByDate groups occurrences by date. Every bucket is a fresh, sorted slice;
// occs itself is left untouched.
func ByDate(occs []occurrence.Occurrence) map[time.Time][]occurrence.Occurrence {
	buckets := make(map[time.Time][]occurrence.Occurrence)
	for _, occ := range occs {
		date := event.Date(occ.Date)
		buckets[date] = append(buckets[date], occ)
	}
	for _, bucket := range buckets {
		slices.SortFunc(bucket, Compare)
	}
	return buckets
}

// Grid attaches occurrences to cells. A positive maxVisible flags every
// occurrence past the limit as hidden; zero or less means no limit.
// Occurrences on dates outside the cells are dropped.
func Grid(occs []occurrence.Occurrence, cells []grid.Cell, maxVisible int) []Cell {
	buckets := ByDate(occs)
	result := make([]Cell, 0, len(cells))
	for _, gridCell := range cells {
		cell := Cell{Cell: gridCell, Occurrences: buckets[gridCell.Date]}
		if cell.Occurrences == nil {
			cell.Occurrences = []occurrence.Occurrence{}
		}
		if maxVisible > 0 && len(cell.Occurrences) > maxVisible {
			for i := maxVisible; i < len(cell.Occurrences); i++ {
				cell.Occurrences[i].Hidden = true
			}
			cell.HiddenCount = len(cell.Occurrences) - maxVisible
		}
		result = append(result, cell)
	}
	return result
}

// Day returns the sorted occurrences falling on date.
func Day(occs []occurrence.Occurrence, date time.Time) []occurrence.Occurrence {
	date = event.Date(date)
	day := []occurrence.Occurrence{}
	for _, occ := range occs {
		if event.Date(occ.Date).Equal(date) {
			day = append(day, occ)
		}
	}
	slices.SortFunc(day, Compare)
	return day
}

// Agenda returns one entry per date of window that has occurrences, in date
// order, labelled relative to today.
func Agenda(occs []occurrence.Occurrence, window event.Window, today time.Time) []AgendaDay {
	today = event.Date(today)
	buckets := ByDate(occs)

	days := []AgendaDay{}
	for date := window.Start; !date.After(window.End); date = event.AddDays(date, 1) {
		bucket, ok := buckets[date]
		if !ok {
			continue
		}
		days = append(days, AgendaDay{
			Date:        date,
			Label:       Label(date, today),
			IsPast:      date.Before(today),
			Occurrences: bucket,
		})
	}
	return days
}

// Label names date relative to today.
func Label(date, today time.Time) string {
	date, today = event.Date(date), event.Date(today)
	switch {
	case date.Equal(today):
		return LabelToday
	case date.Equal(event.AddDays(today, 1)):
		return LabelTomorrow
	}
	return date.Format(AgendaLayout)
}
