package analytics

import (
	"sort"

	"tweet_tracker/internal/domain"
)

type ResponseTimeReport struct {
	AverageMinutesBetweenTweets float64 `json:"averageMinutesBetweenTweets"`
	MedianMinutesBetweenTweets  float64 `json:"medianMinutesBetweenTweets"`
	MinMinutesBetweenTweets     float64 `json:"minMinutesBetweenTweets"`
	MaxMinutesBetweenTweets     float64 `json:"maxMinutesBetweenTweets"`
	Responsiveness              string  `json:"responsiveness"`
	TotalTweets                 int     `json:"totalTweets"`
	PeriodAnalyzed              string  `json:"periodAnalyzed"`
}

// ComputeResponseTimes measures the gaps between consecutive time-sorted
// posts. Fewer than two posts yield a zero report at the slowest tier.
func ComputeResponseTimes(posts []domain.Post) ResponseTimeReport {
	if len(posts) < 2 {
		return ResponseTimeReport{
			Responsiveness: "very_slow",
			TotalTweets:    len(posts),
			PeriodAnalyzed: "N/A",
		}
	}

	sorted := make([]domain.Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].CreatedAt.Sub(sorted[i-1].CreatedAt).Minutes())
	}

	ordered := make([]float64, len(gaps))
	copy(ordered, gaps)
	sort.Float64s(ordered)

	avg := mean(gaps)

	var responsiveness string
	switch {
	case avg > 1440:
		responsiveness = "very_slow"
	case avg > 240:
		responsiveness = "slow"
	case avg > 60:
		responsiveness = "moderate"
	case avg > 15:
		responsiveness = "fast"
	default:
		responsiveness = "very_fast"
	}

	first := sorted[0].CreatedAt.UTC().Format("2006-01-02")
	last := sorted[len(sorted)-1].CreatedAt.UTC().Format("2006-01-02")

	return ResponseTimeReport{
		AverageMinutesBetweenTweets: round2(avg),
		MedianMinutesBetweenTweets:  round2(median(ordered)),
		MinMinutesBetweenTweets:     round2(ordered[0]),
		MaxMinutesBetweenTweets:     round2(ordered[len(ordered)-1]),
		Responsiveness:              responsiveness,
		TotalTweets:                 len(sorted),
		PeriodAnalyzed:              first + " to " + last,
	}
}
