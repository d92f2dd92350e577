package occurrence

import (
	"fmt"
	"time"

	"github.com/artcal/artcal/pkg/event"
	"github.com/artcal/artcal/pkg/recurrence"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Expander turns stored records into occurrences clipped to a window.
type Expander struct {
	workers int
}

// NewExpander returns an Expander. With workers > 1 independent records are
// expanded concurrently; the result is the same as with a single worker.
func NewExpander(workers int) *Expander {
	if workers < 1 {
		workers = 1
	}
	return &Expander{workers: workers}
}

// Expand returns the occurrences of records inside window, in no particular
// order. Drafts are skipped unless includeDrafts is set. The first record
// breaking its invariants aborts the expansion with a
// *event.ConfigurationError.
func (e *Expander) Expand(records []event.Record, window event.Window, includeDrafts bool) ([]Occurrence, error) {
	if e.workers == 1 || len(records) <= e.workers {
		var result []Occurrence
		for _, rec := range records {
			occs, err := ExpandRecord(rec, window, includeDrafts)
			if err != nil {
				return nil, err
			}
			result = append(result, occs...)
		}
		return result, nil
	}

	perRecord := make([][]Occurrence, len(records))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, rec := range records {
		g.Go(func() error {
			occs, err := ExpandRecord(rec, window, includeDrafts)
			if err != nil {
				return err
			}
			perRecord[i] = occs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result []Occurrence
	for _, occs := range perRecord {
		result = append(result, occs...)
	}
	log.Tracef("expanded %d records into %d occurrences using %d workers", len(records), len(result), e.workers)
	return result, nil
}

// ExpandRecord expands a single record. A record with a recurrence rule is
// always expanded through the rule, whatever its duration type.
func ExpandRecord(rec event.Record, window event.Window, includeDrafts bool) ([]Occurrence, error) {
	if !rec.Visible(includeDrafts) {
		return nil, nil
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if rec.Recurrence != nil {
		return expandRecurring(rec, window)
	}
	switch rec.DurationType {
	case event.DurationSingle:
		return expandSingle(rec, window), nil
	case event.DurationMultiDay:
		return expandMultiDay(rec, window), nil
	case event.DurationPermanent:
		return expandPermanent(rec, window), nil
	}
	// unreachable: Validate rejects unknown duration types
	return nil, fmt.Errorf("unsupported duration type %q", rec.DurationType)
}

func expandSingle(rec event.Record, window event.Window) []Occurrence {
	start := event.Date(rec.StartDate)
	if !window.Contains(start) {
		return nil
	}
	return []Occurrence{newOccurrence(rec, start)}
}

func expandMultiDay(rec event.Record, window event.Window) []Occurrence {
	start := event.Date(rec.StartDate)
	end := event.Date(*rec.EndDate)

	from := laterOf(start, window.Start)
	to := earlierOf(end, window.End)
	if to.Before(from) {
		return nil
	}

	occs := make([]Occurrence, 0, daysBetween(from, to)+1)
	for day := from; !day.After(to); day = event.AddDays(day, 1) {
		occ := newOccurrence(rec, day)
		occ.IsMultiDay = true
		switch {
		case day.Equal(start):
			// a one-day range is reported as start only
			occ.MultiDayPosition = PositionStart
		case day.Equal(end):
			occ.MultiDayPosition = PositionEnd
		default:
			occ.MultiDayPosition = PositionMiddle
		}
		occs = append(occs, occ)
	}
	return occs
}

// expandPermanent emits one occurrence for every day of the window from the
// record start onwards.
func expandPermanent(rec event.Record, window event.Window) []Occurrence {
	from := laterOf(event.Date(rec.StartDate), window.Start)
	if from.After(window.End) {
		return nil
	}
	occs := make([]Occurrence, 0, daysBetween(from, window.End)+1)
	for day := from; !day.After(window.End); day = event.AddDays(day, 1) {
		occs = append(occs, newOccurrence(rec, day))
	}
	return occs
}

func expandRecurring(rec event.Record, window event.Window) ([]Occurrence, error) {
	dates, err := recurrence.Expand(*rec.Recurrence, window, rec.StartDate)
	if err != nil {
		return nil, event.WithRecordID(err, rec.ID)
	}
	occs := make([]Occurrence, 0, len(dates))
	for _, date := range dates {
		occ := newOccurrence(rec, date)
		occ.IsVirtual = true
		occ.IsRecurringBase = false
		occs = append(occs, occ)
	}
	return occs, nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
