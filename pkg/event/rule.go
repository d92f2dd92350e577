package event

import (
	"fmt"
	"time"
)

type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
	PatternCustom  Pattern = "custom"
)

type EndKind string

const (
	EndNever      EndKind = "never"
	EndOnDate     EndKind = "on_date"
	EndAfterCount EndKind = "after_count"
)

// Rule describes how a recurring record repeats.
type Rule struct {
	Pattern  Pattern
	Interval int
	// Weekdays uses ISO numbering, Monday = 1 ... Sunday = 7.
	Weekdays    []int
	CustomDates []time.Time
	End         RuleEnd
}

// RuleEnd is the termination condition of a Rule. Only the field matching
// Kind is read.
type RuleEnd struct {
	Kind  EndKind
	Date  time.Time
	Count int
}

func Never() RuleEnd {
	return RuleEnd{Kind: EndNever}
}

func OnDate(d time.Time) RuleEnd {
	return RuleEnd{Kind: EndOnDate, Date: Date(d)}
}

func AfterCount(n int) RuleEnd {
	return RuleEnd{Kind: EndAfterCount, Count: n}
}

// Validate checks the rule invariants. Interval and weekdays are not
// checked for custom rules since they are ignored there.
func (r Rule) Validate() error {
	switch r.Pattern {
	case PatternDaily, PatternMonthly:
		if r.Interval < 1 {
			return newConfigurationError(nilID, fmt.Sprintf("%s rule requires a positive interval, got %d", r.Pattern, r.Interval))
		}
	case PatternWeekly:
		if r.Interval < 1 {
			return newConfigurationError(nilID, fmt.Sprintf("weekly rule requires a positive interval, got %d", r.Interval))
		}
		if len(r.Weekdays) == 0 {
			return newConfigurationError(nilID, "weekly rule requires at least one weekday")
		}
		for _, wd := range r.Weekdays {
			if wd < 1 || wd > 7 {
				return newConfigurationError(nilID, fmt.Sprintf("weekday %d out of range 1..7", wd))
			}
		}
	case PatternCustom:
		if len(r.CustomDates) == 0 {
			return newConfigurationError(nilID, "custom rule requires at least one date")
		}
	default:
		return newConfigurationError(nilID, fmt.Sprintf("unknown recurrence pattern %q", r.Pattern))
	}

	switch r.End.Kind {
	case EndNever, "":
	case EndOnDate:
		if r.End.Date.IsZero() {
			return newConfigurationError(nilID, "on_date end requires a date")
		}
	case EndAfterCount:
		if r.End.Count < 1 {
			return newConfigurationError(nilID, fmt.Sprintf("after_count end requires a positive count, got %d", r.End.Count))
		}
	default:
		return newConfigurationError(nilID, fmt.Sprintf("unknown recurrence end %q", r.End.Kind))
	}
	return nil
}
