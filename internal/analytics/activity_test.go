package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet_tracker/internal/domain"
)

func TestComputeHourly(t *testing.T) {
	posts := []domain.Post{
		{CreatedAt: time.Date(2026, 8, 14, 3, 10, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 8, 15, 3, 45, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 8, 15, 7, 0, 0, 0, time.UTC)},
	}

	report := ComputeHourly(posts)

	require.Len(t, report.Hourly, 24)
	assert.Equal(t, 2, report.Hourly[3].Count)
	assert.Equal(t, 1, report.Hourly[7].Count)
	assert.Equal(t, 2, report.MaxCount)
	assert.Equal(t, 3, report.TotalTweets)
	assert.Equal(t, []int{3}, report.PeakHours)
	assert.Len(t, report.SilentHours, 22)
	assert.NotContains(t, report.SilentHours, 3)
	assert.NotContains(t, report.SilentHours, 7)
}

func TestComputeHourly_Empty(t *testing.T) {
	report := ComputeHourly(nil)

	assert.Zero(t, report.MaxCount)
	assert.Empty(t, report.PeakHours)
	assert.Len(t, report.SilentHours, 24)
}

func TestComputeWeekday(t *testing.T) {
	monday := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)

	posts := []domain.Post{
		{CreatedAt: monday},
		{CreatedAt: monday.Add(time.Hour)},
		{CreatedAt: monday.Add(2 * time.Hour)},
		{CreatedAt: wednesday},
	}

	report := ComputeWeekday(posts)

	require.Len(t, report.WeekSummary, 7)
	assert.Equal(t, 3, report.WeekSummary[1].Count)
	assert.Equal(t, 1, report.WeekSummary[3].Count)
	assert.Equal(t, 4, report.TotalTweets)
	assert.Equal(t, 0.57, report.AveragePerDay)
	assert.Equal(t, 1, report.TopDay)
	assert.Equal(t, "Monday", report.TopDayName)
	// Below one post per day the baseline clamps to 1.
	assert.Equal(t, 3.0, report.WeekSummary[1].Average)
	assert.Zero(t, report.WeekSummary[0].Average)
}

func TestComputeMonth(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		{CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)},
	}

	report := ComputeMonth(posts, now)

	assert.Equal(t, "2026-08", report.Month)
	require.Len(t, report.TweetsPerDay, 15)
	assert.Equal(t, DayStat{Date: "2026-08-01", Count: 2}, report.TweetsPerDay[0])
	assert.Equal(t, DayStat{Date: "2026-08-15", Count: 1}, report.TweetsPerDay[14])
	assert.Equal(t, 3, report.TotalTweets)
	assert.Equal(t, 13, report.ZeroTweetDays)
	assert.Equal(t, 0.2, report.AveragePerDay)
}

func TestComputeToday(t *testing.T) {
	now := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)

	empty := ComputeToday(nil, now)
	assert.Zero(t, empty.Count)
	assert.Empty(t, empty.FirstTweetTime)
	assert.Equal(t, "2026-08-15", empty.Date)

	posts := []domain.Post{
		{CreatedAt: time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 8, 15, 17, 0, 0, 0, time.UTC)},
	}
	report := ComputeToday(posts, now)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, "2026-08-15T09:30:00Z", report.FirstTweetTime)
	assert.Equal(t, "2026-08-15T17:00:00Z", report.LastTweetTime)
}

func TestComputeDailySeries(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		{CreatedAt: time.Date(2026, 8, 9, 10, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 8, 15, 11, 0, 0, 0, time.UTC)},
	}

	series := ComputeDailySeries(posts, now, 7)

	require.Len(t, series, 7)
	assert.Equal(t, DayStat{Date: "2026-08-09", Count: 1}, series[0])
	assert.Equal(t, DayStat{Date: "2026-08-12", Count: 0}, series[3])
	assert.Equal(t, DayStat{Date: "2026-08-15", Count: 2}, series[6])
}
