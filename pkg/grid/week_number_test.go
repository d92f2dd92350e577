package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_WeekNumber(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		weekStart time.Weekday
		expect    string
	}{
		{"wednesday", d(2025, 1, 15), time.Monday, "2025-W03"},
		{"sunday with monday start", d(2025, 1, 19), time.Monday, "2025-W03"},
		{"monday with monday start", d(2025, 1, 20), time.Monday, "2025-W04"},
		{"monday with sunday start", d(2025, 1, 20), time.Sunday, "2025-W03"},
		{"last days of december in week one", d(2024, 12, 31), time.Monday, "2025-W01"},
		{"first days of january in week 53", d(2021, 1, 2), time.Monday, "2020-W53"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, NewBuilder(tt.weekStart).WeekNumber(tt.date).String())
		})
	}
}

func TestParseWeekNumber(t *testing.T) {
	w, err := ParseWeekNumber("2025-W03")
	require.NoError(t, err)
	assert.Equal(t, WeekNumber{Year: 2025, Week: 3}, w)
	assert.Equal(t, d(2025, 1, 13), w.Monday())

	for _, invalid := range []string{"2025-03", "abcd-W01", "2025-Wxx", "2025-W54", ""} {
		_, err := ParseWeekNumber(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestWeekNumber_Monday(t *testing.T) {
	assert.Equal(t, d(2021, 1, 4), WeekNumber{Year: 2021, Week: 1}.Monday())
	assert.Equal(t, d(2024, 12, 30), WeekNumber{Year: 2025, Week: 1}.Monday())
	assert.Equal(t, d(2020, 12, 28), WeekNumber{Year: 2020, Week: 53}.Monday())
}

func TestWeekNumber_Before(t *testing.T) {
	assert.True(t, WeekNumber{Year: 2024, Week: 52}.Before(WeekNumber{Year: 2025, Week: 1}))
	assert.True(t, WeekNumber{Year: 2025, Week: 2}.Before(WeekNumber{Year: 2025, Week: 3}))
	assert.False(t, WeekNumber{Year: 2025, Week: 3}.Before(WeekNumber{Year: 2025, Week: 3}))
}
