package event

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date returns the civil date of t (in t's own location) as 00:00 UTC.
// All dates handled by the engine use this representation so they can be
// compared and used as map keys directly.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a civil date by n days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// Window is an inclusive range of civil dates.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: Date(start), End: Date(end)}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("window end %s is before start %s", FormatDate(w.End), FormatDate(w.Start))
	}
	return w, nil
}

func (w Window) Contains(d time.Time) bool {
	d = Date(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the number of days in the window, both ends included.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s]", FormatDate(w.Start), FormatDate(w.End))
}
