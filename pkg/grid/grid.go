package grid

import (
	"fmt"
	"strings"
	"time"

	"github.com/artcal/artcal/pkg/event"
)

const DefaultAgendaDays = 30

// Cell is one day of a month or week grid.
type Cell struct {
	Date            time.Time
	DayOfMonth      int
	IsCurrentPeriod bool
	IsToday         bool
}

// Builder lays out month and week skeletons. The zero value starts weeks on
// Monday.
type Builder struct {
	offset int // days between Monday and the first day of the week
}

func NewBuilder(weekStart time.Weekday) Builder {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Monday
	}
	return Builder{offset: (int(weekStart) - int(time.Monday) + 7) % 7}
}

func (b Builder) WeekStart() time.Weekday {
	return time.Weekday((int(time.Monday) + b.offset) % 7)
}

// ParseWeekStart accepts "monday" or "sunday"; anything else falls back to
// Monday.
func ParseWeekStart(s string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(s), "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// StartOfWeek returns the first day of the week containing date.
func (b Builder) StartOfWeek(date time.Time) time.Time {
	date = event.Date(date)
	delta := (int(date.Weekday()) - int(b.WeekStart()) + 7) % 7
	return event.AddDays(date, -delta)
}

// Month returns the cells of every full week touching the given month.
// Days of the neighbouring months are included with IsCurrentPeriod false.
func (b Builder) Month(year int, month time.Month, today time.Time) ([]Cell, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	first := event.NewDate(year, month, 1)
	last := event.AddDays(first.AddDate(0, 1, 0), -1)

	start := b.StartOfWeek(first)
	end := event.AddDays(b.StartOfWeek(last), 6)

	today = event.Date(today)
	cells := make([]Cell, 0, 42)
	for day := start; !day.After(end); day = event.AddDays(day, 1) {
		cells = append(cells, Cell{
			Date:            day,
			DayOfMonth:      day.Day(),
			IsCurrentPeriod: day.Month() == month && day.Year() == year,
			IsToday:         day.Equal(today),
		})
	}
	return cells, nil
}

// Week returns the seven cells of the week containing anyDate.
func (b Builder) Week(anyDate time.Time, today time.Time) []Cell {
	start := b.StartOfWeek(anyDate)
	today = event.Date(today)
	cells := make([]Cell, 0, 7)
	for i := 0; i < 7; i++ {
		day := event.AddDays(start, i)
		cells = append(cells, Cell{
			Date:            day,
			DayOfMonth:      day.Day(),
			IsCurrentPeriod: true,
			IsToday:         day.Equal(today),
		})
	}
	return cells
}

// AgendaWindow returns [start, start+days-1]. A non-positive days uses
// DefaultAgendaDays.
func AgendaWindow(start time.Time, days int) event.Window {
	if days <= 0 {
		days = DefaultAgendaDays
	}
	start = event.Date(start)
	return event.Window{Start: start, End: event.AddDays(start, days-1)}
}

// DayWindow is the one-day window of date.
func DayWindow(date time.Time) event.Window {
	date = event.Date(date)
	return event.Window{Start: date, End: date}
}

// Window returns the window spanned by cells, which must be non-empty and
// in date order.
func Window(cells []Cell) event.Window {
	return event.Window{Start: cells[0].Date, End: cells[len(cells)-1].Date}
}
