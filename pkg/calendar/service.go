package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artcal/artcal/internal/utils"
	"github.com/artcal/artcal/pkg/aggregate"
	"github.com/artcal/artcal/pkg/color"
	"github.com/artcal/artcal/pkg/event"
	"github.com/artcal/artcal/pkg/grid"
	"github.com/artcal/artcal/pkg/occurrence"
	log "github.com/sirupsen/logrus"
)

// MaxWindowDays bounds agenda and feed requests.
const MaxWindowDays = 366

var ErrInvalidQuery = errors.New("invalid query")

type Options struct {
	Location     *time.Location
	WeekStart    time.Weekday
	MaxVisible   int
	AgendaDays   int
	DefaultColor string
	Workers      int
}

// Query carries the per-request switches of every view.
type Query struct {
	IncludeDrafts bool
}

type MonthView struct {
	Year  int
	Month time.Month
	Cells []aggregate.Cell
}

type WeekView struct {
	Week  grid.WeekNumber
	Cells []aggregate.Cell
}

// Service answers calendar view queries: it fetches the records of the
// requested window, expands them, colors the occurrences and lays them out.
type Service struct {
	store    event.Store
	expander *occurrence.Expander
	builder  grid.Builder
	clock    utils.Clock
	opts     Options
}

func NewService(store event.Store, clock utils.Clock, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxVisible < 0 {
		opts.MaxVisible = 0
	}
	if opts.AgendaDays <= 0 {
		opts.AgendaDays = grid.DefaultAgendaDays
	}
	return &Service{
		store:    store,
		expander: occurrence.NewExpander(opts.Workers),
		builder:  grid.NewBuilder(opts.WeekStart),
		clock:    clock,
		opts:     opts,
	}
}

// Today is the current civil date in the site timezone.
func (s *Service) Today() time.Time {
	return event.Date(s.clock.Now().In(s.opts.Location))
}

func (s *Service) GetMonthGrid(ctx context.Context, year int, month time.Month, q Query) (MonthView, error) {
	cells, err := s.builder.Month(year, month, s.Today())
	if err != nil {
		return MonthView{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	occs, err := s.occurrences(ctx, grid.Window(cells), q)
	if err != nil {
		return MonthView{}, err
	}
	return MonthView{
		Year:  year,
		Month: month,
		Cells: aggregate.Grid(occs, cells, s.opts.MaxVisible),
	}, nil
}

// GetWeekGrid returns the week containing anyDate. Week cells have no
// visibility limit.
func (s *Service) GetWeekGrid(ctx context.Context, anyDate time.Time, q Query) (WeekView, error) {
	cells := s.builder.Week(anyDate, s.Today())
	occs, err := s.occurrences(ctx, grid.Window(cells), q)
	if err != nil {
		return WeekView{}, err
	}
	return WeekView{
		Week:  s.builder.WeekNumber(anyDate),
		Cells: aggregate.Grid(occs, cells, 0),
	}, nil
}

func (s *Service) GetDayOccurrences(ctx context.Context, date time.Time, q Query) ([]occurrence.Occurrence, error) {
	window := grid.DayWindow(date)
	occs, err := s.occurrences(ctx, window, q)
	if err != nil {
		return nil, err
	}
	return aggregate.Day(occs, window.Start), nil
}

// GetAgenda returns the non-empty days of [start, start+days-1]. A
// non-positive days uses the configured agenda length.
func (s *Service) GetAgenda(ctx context.Context, start time.Time, days int, q Query) ([]aggregate.AgendaDay, error) {
	if days <= 0 {
		days = s.opts.AgendaDays
	}
	if days > MaxWindowDays {
		return nil, fmt.Errorf("%w: agenda cannot span more than %d days", ErrInvalidQuery, MaxWindowDays)
	}
	window := grid.AgendaWindow(start, days)
	occs, err := s.occurrences(ctx, window, q)
	if err != nil {
		return nil, err
	}
	return aggregate.Agenda(occs, window, s.Today()), nil
}

func (s *Service) occurrences(ctx context.Context, window event.Window, q Query) ([]occurrence.Occurrence, error) {
	records, err := s.store.FetchRecords(ctx, window, q.IncludeDrafts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	occs, err := s.expander.Expand(records, window, q.IncludeDrafts)
	if err != nil {
		return nil, fmt.Errorf("failed to expand records for %s: %w", window, err)
	}
	if len(occs) == 0 {
		return occs, nil
	}
	colors, err := s.store.FetchCategoryColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category colors: %w", err)
	}
	log.Debugf("%d records produced %d occurrences in %s", len(records), len(occs), window)
	return color.NewResolver(colors, s.opts.DefaultColor).Apply(occs), nil
}
