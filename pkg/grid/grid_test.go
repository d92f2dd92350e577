package grid

import (
	"fmt"
	"testing"
	"time"

	"github.com/artcal/artcal/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(year int, month time.Month, day int) time.Time {
	return event.NewDate(year, month, day)
}

func TestBuilder_Month(t *testing.T) {
	testCases := []struct {
		year      int
		month     time.Month
		weekStart time.Weekday
		wantFirst time.Time
		wantLen   int
	}{
		{2024, time.March, time.Monday, d(2024, 2, 26), 35},
		{2024, time.September, time.Monday, d(2024, 8, 26), 42},
		{2021, time.February, time.Monday, d(2021, 2, 1), 28},
		{2024, time.February, time.Monday, d(2024, 1, 29), 35},
		{2024, time.March, time.Sunday, d(2024, 2, 25), 42},
		{2024, time.December, time.Monday, d(2024, 11, 25), 42},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d-%02d starting %s", tc.year, tc.month, tc.weekStart), func(t *testing.T) {
			cells, err := NewBuilder(tc.weekStart).Month(tc.year, tc.month, d(2000, 1, 1))

			require.NoError(t, err)
			require.Len(t, cells, tc.wantLen)
			assert.Zero(t, len(cells)%7)
			assert.Equal(t, tc.wantFirst, cells[0].Date)
			assert.Equal(t, tc.weekStart, cells[0].Date.Weekday())

			seen := map[int]int{}
			for i, cell := range cells {
				if i > 0 {
					assert.Equal(t, event.AddDays(cells[i-1].Date, 1), cell.Date, "cells must be contiguous")
				}
				assert.Equal(t, cell.Date.Day(), cell.DayOfMonth)
				if cell.IsCurrentPeriod {
					assert.Equal(t, tc.month, cell.Date.Month())
					seen[cell.DayOfMonth]++
				} else {
					assert.NotEqual(t, tc.month, cell.Date.Month())
				}
			}
			daysInMonth := d(tc.year, tc.month+1, 0).Day()
			assert.Len(t, seen, daysInMonth)
			for day, count := range seen {
				assert.Equal(t, 1, count, "day %d", day)
			}
		})
	}
}

func TestBuilder_Month_MarksToday(t *testing.T) {
	cells, err := NewBuilder(time.Monday).Month(2024, time.March, time.Date(2024, 3, 13, 22, 15, 0, 0, time.UTC))
	require.NoError(t, err)

	var today []time.Time
	for _, cell := range cells {
		if cell.IsToday {
			today = append(today, cell.Date)
		}
	}
	assert.Equal(t, []time.Time{d(2024, 3, 13)}, today)
}

func TestBuilder_Month_InvalidMonth(t *testing.T) {
	cells, err := NewBuilder(time.Monday).Month(2024, 13, d(2024, 1, 1))

	assert.Error(t, err)
	assert.Nil(t, cells)
}

func TestBuilder_Week(t *testing.T) {
	t.Run("monday start", func(t *testing.T) {
		cells := NewBuilder(time.Monday).Week(d(2024, 3, 13), d(2024, 3, 17))

		require.Len(t, cells, 7)
		assert.Equal(t, d(2024, 3, 11), cells[0].Date)
		assert.Equal(t, d(2024, 3, 17), cells[6].Date)
		assert.True(t, cells[6].IsToday)
		for _, cell := range cells {
			assert.True(t, cell.IsCurrentPeriod)
		}
	})

	t.Run("sunday start", func(t *testing.T) {
		cells := NewBuilder(time.Sunday).Week(d(2024, 3, 13), d(2024, 3, 17))

		require.Len(t, cells, 7)
		assert.Equal(t, d(2024, 3, 10), cells[0].Date)
		assert.Equal(t, d(2024, 3, 16), cells[6].Date)
		for _, cell := range cells {
			assert.False(t, cell.IsToday)
		}
	})

	t.Run("week crossing a year boundary", func(t *testing.T) {
		cells := NewBuilder(time.Monday).Week(d(2025, 1, 1), d(2025, 1, 1))

		assert.Equal(t, d(2024, 12, 30), cells[0].Date)
		assert.Equal(t, d(2025, 1, 5), cells[6].Date)
	})
}

func TestBuilder_ZeroValueStartsOnMonday(t *testing.T) {
	var b Builder

	assert.Equal(t, time.Monday, b.WeekStart())
	assert.Equal(t, d(2024, 3, 11), b.StartOfWeek(d(2024, 3, 17)))
}

func TestParseWeekStart(t *testing.T) {
	assert.Equal(t, time.Sunday, ParseWeekStart("sunday"))
	assert.Equal(t, time.Sunday, ParseWeekStart(" Sunday "))
	assert.Equal(t, time.Monday, ParseWeekStart("monday"))
	assert.Equal(t, time.Monday, ParseWeekStart(""))
	assert.Equal(t, time.Monday, ParseWeekStart("friday"))
}

func TestAgendaWindow(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		w := AgendaWindow(d(2024, 3, 1), 0)

		assert.Equal(t, d(2024, 3, 1), w.Start)
		assert.Equal(t, d(2024, 3, 30), w.End)
		assert.Equal(t, DefaultAgendaDays, w.Days())
	})

	t.Run("explicit length", func(t *testing.T) {
		w := AgendaWindow(time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), 7)

		assert.Equal(t, d(2024, 3, 1), w.Start)
		assert.Equal(t, d(2024, 3, 7), w.End)
	})
}

func TestWindow(t *testing.T) {
	cells := NewBuilder(time.Monday).Week(d(2024, 3, 13), d(2024, 3, 13))

	w := Window(cells)

	assert.Equal(t, d(2024, 3, 11), w.Start)
	assert.Equal(t, d(2024, 3, 17), w.End)
	assert.Equal(t, DayWindow(d(2024, 3, 13)), event.Window{Start: d(2024, 3, 13), End: d(2024, 3, 13)})
}
