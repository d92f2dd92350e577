package calendar

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/artcal/artcal/pkg/aggregate"
	"github.com/artcal/artcal/pkg/event"
	"github.com/artcal/artcal/pkg/occurrence"
)

const ProductID = "-//artcal//calendar feed//EN"

// GetFeed renders the occurrences of window as an iCalendar document. Each
// occurrence becomes its own VEVENT; recurrence is already expanded.
func (s *Service) GetFeed(ctx context.Context, window event.Window, q Query) (string, error) {
	if window.End.Before(window.Start) {
		return "", fmt.Errorf("%w: window end is before start", ErrInvalidQuery)
	}
	if window.Days() > MaxWindowDays {
		return "", fmt.Errorf("%w: feed cannot span more than %d days", ErrInvalidQuery, MaxWindowDays)
	}
	occs, err := s.occurrences(ctx, window, q)
	if err != nil {
		return "", err
	}
	slices.SortFunc(occs, func(a, b occurrence.Occurrence) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return aggregate.Compare(a, b)
	})

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRTimezone(s.opts.Location.String())

	stamp := s.clock.Now().UTC()
	for _, occ := range occs {
		s.addEvent(cal, occ, stamp)
	}
	return cal.Serialize(), nil
}

func (s *Service) addEvent(cal *ical.Calendar, occ occurrence.Occurrence, stamp time.Time) {
	ev := cal.AddEvent(occ.InstanceKey + "@artcal")
	ev.SetDtStampTime(stamp)
	ev.SetSummary(occ.Title)
	if occ.Description != "" {
		ev.SetDescription(occ.Description)
	}
	if occ.LocationName != "" {
		ev.SetLocation(occ.LocationName)
	}

	if occ.AllDay() {
		ev.SetAllDayStartAt(occ.Date)
		ev.SetAllDayEndAt(event.AddDays(occ.Date, 1))
	} else {
		start := s.localTime(occ.Date, *occ.StartTime)
		ev.SetStartAt(start)
		if occ.EndTime != nil && occ.EndTime.Minutes() > occ.StartTime.Minutes() {
			ev.SetEndAt(s.localTime(occ.Date, *occ.EndTime))
		}
	}

	switch occ.Status {
	case event.StatusCancelled:
		ev.SetStatus(ical.ObjectStatusCancelled)
	case event.StatusDraft, event.StatusPostponed:
		ev.SetStatus(ical.ObjectStatusTentative)
	default:
		ev.SetStatus(ical.ObjectStatusConfirmed)
	}

	if len(occ.CategoryIDs) > 0 {
		ids := make([]string, 0, len(occ.CategoryIDs))
		for _, id := range occ.CategoryIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		ev.SetProperty(ical.ComponentPropertyCategories, strings.Join(ids, ","))
	}
	if len(occ.ArtistNames) > 0 {
		ev.SetProperty(ical.ComponentProperty("X-ARTCAL-ARTISTS"), strings.Join(occ.ArtistNames, ", "))
	}
	// COLOR only takes CSS3 color names, resolved colors are hex
	ev.SetProperty(ical.ComponentProperty("X-ARTCAL-COLOR"), occ.Color)
}

// localTime places a clock time of a civil date in the site timezone.
func (s *Service) localTime(date time.Time, t event.TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, s.opts.Location)
}
