package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet_tracker/internal/domain"
)

func postsAtMinutes(base time.Time, minutes ...int) []domain.Post {
	posts := make([]domain.Post, len(minutes))
	for i, m := range minutes {
		posts[i] = domain.Post{
			ID:        time.Duration(m).String(),
			CreatedAt: base.Add(time.Duration(m) * time.Minute),
		}
	}
	return posts
}

func TestDetectBursts_TooFewPosts(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	report := DetectBursts(postsAtMinutes(now, 0, 5), now)

	assert.Equal(t, 0, report.TotalBursts)
	assert.Nil(t, report.LongestBurst)
	assert.NotNil(t, report.RecentBursts)
	assert.Empty(t, report.RecentBursts)
	assert.Zero(t, report.QuietPeriodsPerWeek)
}

func TestDetectBursts_SingleBurst(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	base := now.Add(-2 * time.Hour)

	report := DetectBursts(postsAtMinutes(base, 0, 5, 10, 45, 90), now)

	require.Equal(t, 1, report.TotalBursts)
	require.NotNil(t, report.LongestBurst)
	assert.Equal(t, 3, report.LongestBurst.TweetCount)
	assert.Equal(t, base, report.LongestBurst.StartTime)
	assert.Equal(t, base.Add(10*time.Minute), report.LongestBurst.EndTime)
	assert.Equal(t, 10.0, report.LongestBurst.DurationMinutes)
	assert.Equal(t, 0.3, report.LongestBurst.TweetsPerMinute)
	assert.Equal(t, 3.0, report.AverageTweetsPerBurst)
	assert.Equal(t, 10.0, report.AverageBurstDuration)
	assert.Equal(t, 1.0, report.BurstsPerWeek)
}

func TestDetectBursts_NonOverlappingRuns(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	base := now.Add(-3 * time.Hour)

	report := DetectBursts(postsAtMinutes(base, 0, 5, 10, 40, 41, 42), now)

	require.Equal(t, 2, report.TotalBursts)
	require.Len(t, report.RecentBursts, 2)
	// Most recent first.
	assert.Equal(t, base.Add(40*time.Minute), report.RecentBursts[0].StartTime)
	assert.Equal(t, base, report.RecentBursts[1].StartTime)
	assert.Equal(t, 2.0, report.RecentBursts[0].DurationMinutes)
	assert.Equal(t, 1.5, report.RecentBursts[0].TweetsPerMinute)
	// 6 posts, 2 bursts.
	assert.Equal(t, 0.4, report.QuietPeriodsPerWeek)
}

func TestDetectBursts_DurationFloor(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	base := now.Add(-time.Hour)

	posts := []domain.Post{
		{ID: "1", CreatedAt: base},
		{ID: "2", CreatedAt: base.Add(10 * time.Second)},
		{ID: "3", CreatedAt: base.Add(20 * time.Second)},
	}

	report := DetectBursts(posts, now)

	require.Equal(t, 1, report.TotalBursts)
	assert.Equal(t, 1.0, report.LongestBurst.DurationMinutes)
	assert.Equal(t, 3.0, report.LongestBurst.TweetsPerMinute)
}

func TestDetectBursts_LongestTieGoesToFirst(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	base := now.Add(-4 * time.Hour)

	report := DetectBursts(postsAtMinutes(base, 0, 5, 10, 100, 105, 110), now)

	require.Equal(t, 2, report.TotalBursts)
	assert.Equal(t, base, report.LongestBurst.StartTime)
}

func TestDetectBursts_BurstsPerWeekWindow(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -10)
	recent := now.Add(-2 * time.Hour)

	posts := append(postsAtMinutes(old, 0, 1, 2), postsAtMinutes(recent, 0, 1, 2)...)
	for i := range posts {
		posts[i].ID = posts[i].CreatedAt.Format(time.RFC3339Nano)
	}

	report := DetectBursts(posts, now)

	assert.Equal(t, 2, report.TotalBursts)
	assert.Equal(t, 1.0, report.BurstsPerWeek)
}
