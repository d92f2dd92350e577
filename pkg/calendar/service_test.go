package calendar

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/artcal/artcal/internal/utils"
	"github.com/artcal/artcal/pkg/aggregate"
	"github.com/artcal/artcal/pkg/color"
	"github.com/artcal/artcal/pkg/event"
	"github.com/artcal/artcal/pkg/occurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var warsaw, _ = time.LoadLocation("Europe/Warsaw")

func d(year int, month time.Month, day int) time.Time {
	return event.NewDate(year, month, day)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func at(hour, minute int) *event.TimeOfDay {
	return &event.TimeOfDay{Hour: hour, Minute: minute}
}

func single(title string, date time.Time, start *event.TimeOfDay, categories ...int64) event.Record {
	return event.Record{
		Title:        title,
		Status:       event.StatusPublished,
		DurationType: event.DurationSingle,
		StartDate:    date,
		StartTime:    start,
		CategoryIDs:  categories,
	}
}

// Test setup helper: the clock is 23:30 UTC on 13 March 2024, which is
// already 14 March in Warsaw.
func setupServiceTest(t *testing.T) (*Service, *event.StoreStub, context.Context) {
	store := event.NewStoreStub()
	clock := utils.NewMockClock(time.Date(2024, 3, 13, 23, 30, 0, 0, time.UTC))
	service := NewService(store, clock, Options{
		Location:   warsaw,
		WeekStart:  time.Monday,
		MaxVisible: 3,
		Workers:    2,
	})
	return service, store, context.Background()
}

func cellOn(t *testing.T, cells []aggregate.Cell, date time.Time) aggregate.Cell {
	t.Helper()
	for _, cell := range cells {
		if cell.Date.Equal(date) {
			return cell
		}
	}
	t.Fatalf("no cell for %s", event.FormatDate(date))
	return aggregate.Cell{}
}

func titles(occs []occurrence.Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Title)
	}
	return out
}

func TestService_Today(t *testing.T) {
	service, _, _ := setupServiceTest(t)

	assert.Equal(t, d(2024, 3, 14), service.Today())
}

func TestService_TodayFollowsClock(t *testing.T) {
	// given
	service, _, ctx := setupServiceTest(t)
	clock := service.clock.(*utils.MockClock)

	// when
	clock.SetNow(time.Date(2024, 3, 14, 22, 59, 0, 0, time.UTC))

	// then
	assert.Equal(t, d(2024, 3, 14), service.Today())

	// when midnight passes in Warsaw
	clock.Advance(time.Minute)

	// then
	assert.Equal(t, d(2024, 3, 15), service.Today())
	view, err := service.GetWeekGrid(ctx, d(2024, 3, 15), Query{})
	require.NoError(t, err)
	assert.False(t, cellOn(t, view.Cells, d(2024, 3, 14)).IsToday)
	assert.True(t, cellOn(t, view.Cells, d(2024, 3, 15)).IsToday)
}

func TestService_GetMonthGrid(t *testing.T) {
	t.Run("attaches colored occurrences to cells", func(t *testing.T) {
		// given
		service, store, ctx := setupServiceTest(t)
		store.SetColor(2, "#aa0000")
		store.Add(
			single("Opening", d(2024, 3, 13), at(18, 0), 1, 2),
			single("Uncolored", d(2024, 3, 13), nil, 9),
		)

		// when
		view, err := service.GetMonthGrid(ctx, 2024, time.March, Query{})

		// then
		require.NoError(t, err)
		assert.Equal(t, 2024, view.Year)
		assert.Equal(t, time.March, view.Month)
		require.Len(t, view.Cells, 35)
		cell := cellOn(t, view.Cells, d(2024, 3, 13))
		require.Len(t, cell.Occurrences, 2)
		assert.Equal(t, "Uncolored", cell.Occurrences[0].Title)
		assert.Equal(t, color.DefaultColor, cell.Occurrences[0].Color)
		assert.Equal(t, "Opening", cell.Occurrences[1].Title)
		assert.Equal(t, "#aa0000", cell.Occurrences[1].Color)
	})

	t.Run("marks today in the site timezone", func(t *testing.T) {
		service, _, ctx := setupServiceTest(t)

		view, err := service.GetMonthGrid(ctx, 2024, time.March, Query{})

		require.NoError(t, err)
		assert.True(t, cellOn(t, view.Cells, d(2024, 3, 14)).IsToday)
		assert.False(t, cellOn(t, view.Cells, d(2024, 3, 13)).IsToday)
	})

	t.Run("hides occurrences past the visible limit", func(t *testing.T) {
		service, store, ctx := setupServiceTest(t)
		for hour := 10; hour < 15; hour++ {
			store.Add(single(fmt.Sprintf("Talk %d", hour), d(2024, 3, 20), at(hour, 0)))
		}

		view, err := service.GetMonthGrid(ctx, 2024, time.March, Query{})

		require.NoError(t, err)
		cell := cellOn(t, view.Cells, d(2024, 3, 20))
		assert.Equal(t, 2, cell.HiddenCount)
		assert.Equal(t, []string{"Talk 10", "Talk 11", "Talk 12"}, titles(cell.VisibleOccurrences()))
	})

	t.Run("includes leading and trailing days", func(t *testing.T) {
		service, store, ctx := setupServiceTest(t)
		store.Add(event.Record{
			Title:        "Residency",
			Status:       event.StatusPublished,
			DurationType: event.DurationMultiDay,
			StartDate:    d(2024, 2, 27),
			EndDate:      datePtr(d(2024, 3, 2)),
		})

		view, err := service.GetMonthGrid(ctx, 2024, time.March, Query{})

		require.NoError(t, err)
		leading := cellOn(t, view.Cells, d(2024, 2, 27))
		assert.False(t, leading.IsCurrentPeriod)
		require.Len(t, leading.Occurrences, 1)
		assert.Equal(t, occurrence.PositionStart, leading.Occurrences[0].MultiDayPosition)
		assert.Equal(t, occurrence.PositionEnd, cellOn(t, view.Cells, d(2024, 3, 2)).Occurrences[0].MultiDayPosition)
	})

	t.Run("drafts only on request", func(t *testing.T) {
		service, store, ctx := setupServiceTest(t)
		draft := single("Secret preview", d(2024, 3, 5), nil)
		draft.Status = event.StatusDraft
		store.Add(draft)

		hidden, err := service.GetMonthGrid(ctx, 2024, time.March, Query{})
		require.NoError(t, err)
		shown, err := service.GetMonthGrid(ctx, 2024, time.March, Query{IncludeDrafts: true})
		require.NoError(t, err)

		assert.Empty(t, cellOn(t, hidden.Cells, d(2024, 3, 5)).Occurrences)
		assert.Len(t, cellOn(t, shown.Cells, d(2024, 3, 5)).Occurrences, 1)
	})

	t.Run("invalid month", func(t *testing.T) {
		service, _, ctx := setupServiceTest(t)

		_, err := service.GetMonthGrid(ctx, 2024, 0, Query{})

		assert.ErrorIs(t, err, ErrInvalidQuery)
	})
}

func TestService_GetWeekGrid(t *testing.T) {
	// given
	service, store, ctx := setupServiceTest(t)
	for hour := 10; hour < 16; hour++ {
		store.Add(single(fmt.Sprintf("Tour %d", hour), d(2024, 3, 12), at(hour, 0)))
	}
	store.Add(event.Record{
		Title:        "Weekly drawing class",
		Status:       event.StatusPublished,
		DurationType: event.DurationSingle,
		StartDate:    d(2024, 1, 3),
		Recurrence: &event.Rule{
			Pattern:  event.PatternWeekly,
			Interval: 1,
			Weekdays: []int{3},
			End:      event.Never(),
		},
	})

	// when
	view, err := service.GetWeekGrid(ctx, d(2024, 3, 16), Query{})

	// then
	require.NoError(t, err)
	assert.Equal(t, "2024-W11", view.Week.String())
	require.Len(t, view.Cells, 7)
	assert.Equal(t, d(2024, 3, 11), view.Cells[0].Date)
	tuesday := cellOn(t, view.Cells, d(2024, 3, 12))
	assert.Len(t, tuesday.Occurrences, 6)
	assert.Zero(t, tuesday.HiddenCount)
	wednesday := cellOn(t, view.Cells, d(2024, 3, 13))
	require.Len(t, wednesday.Occurrences, 1)
	assert.True(t, wednesday.Occurrences[0].IsVirtual)
}

func TestService_GetDayOccurrences(t *testing.T) {
	service, store, ctx := setupServiceTest(t)
	store.Add(
		single("Evening", d(2024, 3, 13), at(19, 0)),
		single("All day fair", d(2024, 3, 13), nil),
		single("Morning", d(2024, 3, 13), at(9, 0)),
		single("Other day", d(2024, 3, 14), nil),
		event.Record{
			Title:        "Permanent collection",
			Status:       event.StatusPublished,
			DurationType: event.DurationPermanent,
			StartDate:    d(2020, 1, 1),
		},
	)

	occs, err := service.GetDayOccurrences(ctx, d(2024, 3, 13), Query{})

	require.NoError(t, err)
	assert.Equal(t, []string{"All day fair", "Permanent collection", "Morning", "Evening"}, titles(occs))
	for _, o := range occs {
		assert.Equal(t, d(2024, 3, 13), o.Date)
		assert.NotEmpty(t, o.Color)
	}
}

func TestService_GetAgenda(t *testing.T) {
	t.Run("labels days relative to today", func(t *testing.T) {
		service, store, ctx := setupServiceTest(t)
		store.Add(
			single("Yesterday", d(2024, 3, 13), nil),
			single("Today", d(2024, 3, 14), nil),
			single("Tomorrow", d(2024, 3, 15), nil),
			single("Next week", d(2024, 3, 21), nil),
		)

		agenda, err := service.GetAgenda(ctx, d(2024, 3, 13), 0, Query{})

		require.NoError(t, err)
		require.Len(t, agenda, 4)
		assert.Equal(t, "Wednesday, March 13 2024", agenda[0].Label)
		assert.True(t, agenda[0].IsPast)
		assert.Equal(t, aggregate.LabelToday, agenda[1].Label)
		assert.Equal(t, aggregate.LabelTomorrow, agenda[2].Label)
		assert.Equal(t, "Thursday, March 21 2024", agenda[3].Label)
		assert.False(t, agenda[3].IsPast)
	})

	t.Run("default length is thirty days", func(t *testing.T) {
		service, store, ctx := setupServiceTest(t)
		store.Add(
			single("Last day", d(2024, 4, 11), nil),
			single("Too late", d(2024, 4, 12), nil),
		)

		agenda, err := service.GetAgenda(ctx, d(2024, 3, 13), 0, Query{})

		require.NoError(t, err)
		require.Len(t, agenda, 1)
		assert.Equal(t, d(2024, 4, 11), agenda[0].Date)
	})

	t.Run("too long", func(t *testing.T) {
		service, _, ctx := setupServiceTest(t)

		_, err := service.GetAgenda(ctx, d(2024, 3, 13), MaxWindowDays+1, Query{})

		assert.ErrorIs(t, err, ErrInvalidQuery)
	})
}

func TestService_ConfigurationError(t *testing.T) {
	service, store, ctx := setupServiceTest(t)
	added := store.Add(event.Record{
		Title:        "Broken",
		Status:       event.StatusPublished,
		DurationType: event.DurationMultiDay,
		StartDate:    d(2024, 3, 10),
	})

	_, err := service.GetMonthGrid(ctx, 2024, time.March, Query{})

	var cfgErr *event.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, added[0].ID, cfgErr.RecordID)
}

func TestService_StoreFailure(t *testing.T) {
	service, store, ctx := setupServiceTest(t)
	storeErr := errors.New("connection refused")
	store.FailWith(storeErr)

	_, err := service.GetDayOccurrences(ctx, d(2024, 3, 13), Query{})

	assert.ErrorIs(t, err, storeErr)
	assert.False(t, event.IsConfigurationError(err))
}
