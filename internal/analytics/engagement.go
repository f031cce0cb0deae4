package analytics

import (
	"fmt"
	"math"
	"sort"

	"tweet_tracker/internal/domain"
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type EngagementReport struct {
	AverageTweetsPerDay float64 `json:"averageTweetsPerDay"`
	MedianTweetsPerDay  float64 `json:"medianTweetsPerDay"`
	StandardDeviation   float64 `json:"standardDeviation"`
	MinTweetsPerDay     float64 `json:"minTweetsPerDay"`
	MaxTweetsPerDay     float64 `json:"maxTweetsPerDay"`
	P25TweetsPerDay     float64 `json:"p25TweetsPerDay"`
	P75TweetsPerDay     float64 `json:"p75TweetsPerDay"`
	TotalTweetsAllTime  int     `json:"totalTweetsAllTime"`
	DaysWithTweets      int     `json:"daysWithTweets"`
	TotalDaysTracked    int     `json:"totalDaysTracked"`
	ConsistencyScore    int     `json:"consistencyScore"`
	MostActiveDayOfWeek string  `json:"mostActiveDayOfWeek"`
	MostActiveHour      string  `json:"mostActiveHour"`
	TweetingFrequency   string  `json:"tweetingFrequency"`
}

// ComputeEngagement derives posting-rhythm statistics from the non-reply
// post set. Distribution statistics (median, deviation, percentiles,
// min/max) run over the per-day counts of days that have at least one post;
// the average and the frequency tier divide the total by the full tracked
// range.
func ComputeEngagement(posts []domain.Post) EngagementReport {
	if len(posts) == 0 {
		return EngagementReport{
			MostActiveDayOfWeek: "N/A",
			MostActiveHour:      "N/A",
			TweetingFrequency:   "sparse",
		}
	}

	sorted := make([]domain.Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	first := sorted[0].CreatedAt
	last := sorted[len(sorted)-1].CreatedAt
	totalDays := int(last.Sub(first).Hours()/24) + 1

	dayCounts := make(map[string]int)
	var weekdayCounts [7]int
	var hourCounts [24]int
	for _, p := range sorted {
		t := p.CreatedAt.UTC()
		dayCounts[t.Format("2006-01-02")]++
		weekdayCounts[int(t.Weekday())]++
		hourCounts[t.Hour()]++
	}

	distribution := make([]float64, 0, len(dayCounts))
	for _, c := range dayCounts {
		distribution = append(distribution, float64(c))
	}
	sort.Float64s(distribution)

	averagePerDay := float64(len(sorted)) / float64(totalDays)

	frequency := "very_frequent"
	switch {
	case averagePerDay < 1:
		frequency = "sparse"
	case averagePerDay < 5:
		frequency = "moderate"
	case averagePerDay < 20:
		frequency = "frequent"
	}

	return EngagementReport{
		AverageTweetsPerDay: round2(averagePerDay),
		MedianTweetsPerDay:  round2(median(distribution)),
		StandardDeviation:   round2(stdDev(distribution)),
		MinTweetsPerDay:     distribution[0],
		MaxTweetsPerDay:     distribution[len(distribution)-1],
		P25TweetsPerDay:     round2(percentile(distribution, 25)),
		P75TweetsPerDay:     round2(percentile(distribution, 75)),
		TotalTweetsAllTime:  len(sorted),
		DaysWithTweets:      len(dayCounts),
		TotalDaysTracked:    totalDays,
		ConsistencyScore:    int(math.Round(float64(len(dayCounts)) / float64(totalDays) * 100)),
		MostActiveDayOfWeek: weekdayNames[argmax(weekdayCounts[:])],
		MostActiveHour:      fmt.Sprintf("%02d:00", argmax(hourCounts[:])),
		TweetingFrequency:   frequency,
	}
}

// argmax returns the index of the maximum; the lowest index wins ties.
func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
