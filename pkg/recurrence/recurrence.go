package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/artcal/artcal/pkg/event"
	"github.com/teambition/rrule-go"
)

var isoWeekdays = map[int]rrule.Weekday{
	1: rrule.MO,
	2: rrule.TU,
	3: rrule.WE,
	4: rrule.TH,
	5: rrule.FR,
	6: rrule.SA,
	7: rrule.SU,
}

// Expand returns the dates generated by rule that fall inside window, in
// ascending order and without duplicates. Generation always walks forward
// from base, so an after_count limit is consumed by dates before the window
// too. A malformed rule yields a *event.ConfigurationError.
func Expand(rule event.Rule, window event.Window, base time.Time) ([]time.Time, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	base = event.Date(base)

	if rule.Pattern == event.PatternCustom {
		return expandCustom(rule, window), nil
	}

	r, err := rrule.NewRRule(toOption(rule, base))
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}
	dates := r.Between(window.Start, window.End, true)
	for i, d := range dates {
		dates[i] = event.Date(d)
	}
	return dates, nil
}

func toOption(rule event.Rule, base time.Time) rrule.ROption {
	opt := rrule.ROption{
		Dtstart:  base,
		Interval: rule.Interval,
		Wkst:     rrule.MO,
	}

	switch rule.Pattern {
	case event.PatternDaily:
		opt.Freq = rrule.DAILY
	case event.PatternWeekly:
		opt.Freq = rrule.WEEKLY
		for _, wd := range uniqueSorted(rule.Weekdays) {
			opt.Byweekday = append(opt.Byweekday, isoWeekdays[wd])
		}
	case event.PatternMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday, opt.Bysetpos = monthDaySelector(base.Day())
	}

	switch rule.End.Kind {
	case event.EndOnDate:
		opt.Until = event.Date(rule.End.Date)
	case event.EndAfterCount:
		opt.Count = rule.End.Count
	}
	return opt
}

// monthDaySelector picks the base day of month, clamped to the last day of
// shorter months. For day >= 29 the candidates 28..day are listed and the
// last one present in the month is kept, so 31 lands on Feb 28/29, Apr 30
// and so on instead of skipping those months.
func monthDaySelector(day int) (bymonthday []int, bysetpos []int) {
	if day <= 28 {
		return []int{day}, nil
	}
	for d := 28; d <= day; d++ {
		bymonthday = append(bymonthday, d)
	}
	return bymonthday, []int{-1}
}

func expandCustom(rule event.Rule, window event.Window) []time.Time {
	dates := make([]time.Time, 0, len(rule.CustomDates))
	seen := make(map[time.Time]bool, len(rule.CustomDates))
	for _, d := range rule.CustomDates {
		d = event.Date(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	switch rule.End.Kind {
	case event.EndAfterCount:
		if len(dates) > rule.End.Count {
			dates = dates[:rule.End.Count]
		}
	case event.EndOnDate:
		until := event.Date(rule.End.Date)
		n := sort.Search(len(dates), func(i int) bool { return dates[i].After(until) })
		dates = dates[:n]
	}

	result := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if window.Contains(d) {
			result = append(result, d)
		}
	}
	return result
}

func uniqueSorted(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
