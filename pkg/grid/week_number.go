package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type WeekNumber struct {
	Week int
	Year int
}

// WeekNumber returns the ISO week of the week containing date. With a Sunday
// week start the label is the one of the Sunday, i.e. the previous ISO week.
func (b Builder) WeekNumber(date time.Time) WeekNumber {
	year, week := b.StartOfWeek(date).ISOWeek()
	return WeekNumber{Year: year, Week: week}
}

// ParseWeekNumber converts ISO 8601 week format e.g. "2025-W03" to WeekNumber
func ParseWeekNumber(isoWeek string) (WeekNumber, error) {
	yearPart, weekPart, found := strings.Cut(isoWeek, "-W")
	if !found {
		return WeekNumber{}, fmt.Errorf("invalid ISO week format: %s", isoWeek)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return WeekNumber{}, fmt.Errorf("invalid year: %w", err)
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil {
		return WeekNumber{}, fmt.Errorf("invalid week: %w", err)
	}
	if week < 1 || week > 53 {
		return WeekNumber{}, fmt.Errorf("invalid week: %d", week)
	}
	return WeekNumber{Year: year, Week: week}, nil
}

// Monday returns the Monday starting the ISO week.
func (w WeekNumber) Monday() time.Time {
	// January 4th always falls in ISO week 1
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	delta := (int(jan4.Weekday()) - int(time.Monday) + 7) % 7
	return jan4.AddDate(0, 0, -delta+(w.Week-1)*7)
}

func (w WeekNumber) Before(other WeekNumber) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Week < other.Week
}

// String returns the ISO 8601 week format e.g. "2025-W03"
func (w WeekNumber) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}
