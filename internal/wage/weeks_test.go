package wage

import (
	"slices"
	"testing"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestPartitionWeeks(t *testing.T) {
	testCases := []struct {
		name       string
		start, end time.Time
		expected   []WeekRange
	}{
		{
			name:     "single day",
			start:    date(2024, time.January, 1),
			end:      date(2024, time.January, 1),
			expected: []WeekRange{{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}},
		},
		{
			name:     "exactly one week",
			start:    date(2024, time.January, 1),
			end:      date(2024, time.January, 7),
			expected: []WeekRange{{Start: date(2024, time.January, 1), End: date(2024, time.January, 7)}},
		},
		{
			name:  "eight days",
			start: date(2024, time.January, 1),
			end:   date(2024, time.January, 8),
			expected: []WeekRange{
				{Start: date(2024, time.January, 1), End: date(2024, time.January, 7)},
				{Start: date(2024, time.January, 8), End: date(2024, time.January, 8)},
			},
		},
		{
			name:  "whole month starting mid week",
			start: date(2024, time.January, 3),
			end:   date(2024, time.January, 31),
			expected: []WeekRange{
				{Start: date(2024, time.January, 3), End: date(2024, time.January, 9)},
				{Start: date(2024, time.January, 10), End: date(2024, time.January, 16)},
				{Start: date(2024, time.January, 17), End: date(2024, time.January, 23)},
				{Start: date(2024, time.January, 24), End: date(2024, time.January, 30)},
				{Start: date(2024, time.January, 31), End: date(2024, time.January, 31)},
			},
		},
		{
			name:  "across leap day",
			start: date(2024, time.February, 26),
			end:   date(2024, time.March, 5),
			expected: []WeekRange{
				{Start: date(2024, time.February, 26), End: date(2024, time.March, 3)},
				{Start: date(2024, time.March, 4), End: date(2024, time.March, 5)},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			weeks, err := PartitionWeeks(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, slices.Collect(weeks))
		})
	}
}

func TestPartitionWeeks_InvalidRange(t *testing.T) {
	_, err := PartitionWeeks(date(2024, time.January, 2), date(2024, time.January, 1))

	require.ErrorIs(t, err, ErrInvalidRange)
	assert.True(t, IsClientError(err))
}

func TestPartitionWeeks_IgnoresTimeOfDay(t *testing.T) {
	weeks, err := PartitionWeeks(
		time.Date(2024, time.January, 1, 18, 30, 0, 0, time.UTC),
		time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, []WeekRange{{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}}, slices.Collect(weeks))
}

func TestPartitionWeeks_Restartable(t *testing.T) {
	weeks, err := PartitionWeeks(date(2024, time.January, 1), date(2024, time.February, 29))
	require.NoError(t, err)

	first := slices.Collect(weeks)
	second := slices.Collect(weeks)
	assert.Equal(t, first, second)
	assert.Len(t, first, 9)
}

func TestPartitionWeeks_StopsEarly(t *testing.T) {
	weeks, err := PartitionWeeks(date(2024, time.January, 1), date(2024, time.December, 31))
	require.NoError(t, err)

	count := 0
	for range weeks {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestPartitionWeeks_CoversRangeExactly(t *testing.T) {
	start := date(2023, time.December, 20)
	for span := 0; span < 120; span++ {
		end := start.AddDate(0, 0, span)

		weeks, err := PartitionWeeks(start, end)
		require.NoError(t, err)

		totalDays := 0
		expectedStart := start
		var last WeekRange
		for week := range weeks {
			require.True(t, week.Start.Equal(expectedStart), "windows must be contiguous")
			require.False(t, week.End.Before(week.Start))
			require.LessOrEqual(t, week.Days(), 7)

			totalDays += week.Days()
			expectedStart = week.End.AddDate(0, 0, 1)
			last = week
		}

		require.Equal(t, span+1, totalDays)
		require.True(t, last.End.Equal(end))
	}
}

func TestWeekRange_Contains(t *testing.T) {
	week := WeekRange{Start: date(2024, time.January, 1), End: date(2024, time.January, 7)}

	assert.True(t, week.Contains(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, week.Contains(time.Date(2024, time.January, 7, 23, 59, 0, 0, time.UTC)))
	assert.False(t, week.Contains(time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, week.Contains(time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)))
}

func TestWeekRange_Contains_ComparesCalendarDates(t *testing.T) {
	week := WeekRange{Start: date(2024, time.January, 1), End: date(2024, time.January, 7)}
	seoul := time.FixedZone("KST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	assert.True(t, week.Contains(time.Date(2024, time.January, 1, 5, 0, 0, 0, seoul)))
	assert.True(t, week.Contains(time.Date(2024, time.January, 7, 23, 0, 0, 0, newYork)))
	assert.False(t, week.Contains(time.Date(2023, time.December, 31, 23, 0, 0, 0, seoul)))
	assert.False(t, week.Contains(time.Date(2024, time.January, 8, 5, 0, 0, 0, seoul)))
}

func TestComputeWorkTime_IntervalInOtherLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	start := time.Date(2024, time.January, 1, 5, 0, 0, 0, seoul)
	intervals := []*domain.WorkInterval{{AccountID: 1, StoreID: 1, Start: start, End: start.Add(2 * time.Hour)}}

	result, err := ComputeWorkTime(1, 1, intervals, false, date(2024, time.January, 1), date(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, WorkTimeResult{DayMinutes: 120, WorkDayCount: 1}, result)
}
