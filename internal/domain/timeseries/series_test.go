package timeseries_test

import (
	"testing"
	"time"

	"github.com/lumenlabs/pulse/internal/domain/timeseries"
	"github.com/stretchr/testify/require"
)

func TestSeries_DenseDaily(t *testing.T) {
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 10, 23, 0, 0, 0, time.UTC)
	instants := []time.Time{
		time.Date(2025, 4, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 3, 17, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC), // out of range
	}

	series, err := timeseries.Series(instants, from, to, timeseries.Daily, time.UTC)
	require.NoError(t, err)
	require.Len(t, series, 10)
	require.Equal(t, from, series[0].Date)
	require.Equal(t, 2, series[2].Total)
	require.Equal(t, 1, series[8].Total)
	require.Equal(t, 0, series[9].Total)
	for i := 1; i < len(series); i++ {
		require.True(t, series[i].Date.After(series[i-1].Date))
	}
}

func TestSeries_WeeklyMondayAnchor(t *testing.T) {
	// 2025-04-06 is a Sunday; its week starts Monday 2025-03-31.
	sunday := time.Date(2025, 4, 6, 10, 0, 0, 0, time.UTC)
	series, err := timeseries.Series([]time.Time{sunday}, sunday, sunday, timeseries.Weekly, time.UTC)
	require.NoError(t, err)
	require.Len(t, series, 1)
	require.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), series[0].Date)
	require.Equal(t, 1, series[0].Total)
}

func TestSeries_MonthlySpansBoundary(t *testing.T) {
	from := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	series, err := timeseries.Series(nil, from, to, timeseries.Monthly, time.UTC)
	require.NoError(t, err)
	require.Len(t, series, 3)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), series[0].Date)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), series[2].Date)
}

func TestSeries_InvalidRange(t *testing.T) {
	now := time.Now()
	_, err := timeseries.Series(nil, now, now.Add(-time.Hour), timeseries.Daily, time.UTC)
	require.ErrorIs(t, err, timeseries.ErrInvalidRange)
}

func TestSeries_UnknownGranularity(t *testing.T) {
	now := time.Now()
	_, err := timeseries.Series(nil, now, now, timeseries.Granularity("hourly"), time.UTC)
	require.Error(t, err)
}

func TestSummarize_PeakFirstOccurrenceAndRoundedMean(t *testing.T) {
	day := func(d, total int) timeseries.Point {
		return timeseries.Point{Date: time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC), Total: total}
	}
	summary := timeseries.Summarize([]timeseries.Point{day(1, 3), day(2, 7), day(3, 7), day(4, 2)})
	require.Equal(t, 7, summary.Peak)
	require.Equal(t, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), summary.PeakDate)
	// mean of 3,7,7,2 = 4.75 rounds to 5
	require.Equal(t, 5, summary.Average)
}

func TestSummarize_Empty(t *testing.T) {
	require.Equal(t, timeseries.Summary{}, timeseries.Summarize(nil))
}

func TestBenchmarksAt(t *testing.T) {
	now := time.Date(2025, 4, 9, 15, 0, 0, 0, time.UTC) // Wednesday
	instants := []time.Time{
		now.Add(-time.Hour),                            // today, this week, this month
		time.Date(2025, 4, 8, 12, 0, 0, 0, time.UTC),   // yesterday
		time.Date(2025, 4, 4, 12, 0, 0, 0, time.UTC),   // last week, this month
		time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),  // last month, last 30 days
		time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC), // last 12 months only
		time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),   // outside everything
	}

	b := timeseries.BenchmarksAt(instants, now, time.UTC)
	require.Equal(t, 1, b.Today)
	require.Equal(t, 1, b.Yesterday)
	require.Equal(t, 2, b.ThisWeek)
	require.Equal(t, 1, b.LastWeek)
	require.Equal(t, 3, b.ThisMonth)
	require.Equal(t, 1, b.LastMonth)
	require.Equal(t, 4, b.Last30Days)
	require.Equal(t, 5, b.Last12Months)
}
