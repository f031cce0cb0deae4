package analytics

import (
	"math"
	"time"
)

type VelocityMetric struct {
	Period          string  `json:"period"`
	TweetsPerHour   float64 `json:"tweetsPerHour"`
	TweetsPerDay    float64 `json:"tweetsPerDay"`
	Trend           string  `json:"trend"`
	TrendPercentage float64 `json:"trendPercentage"`
}

type VelocityReport struct {
	Today      VelocityMetric `json:"today"`
	SevenDays  VelocityMetric `json:"sevenDays"`
	ThirtyDays VelocityMetric `json:"thirtyDays"`
}

// ComputeVelocity turns the three trailing-window counts into posting
// rates. The trend is computed only for the 7-day bucket by comparing its
// per-day rate against the 30-day baseline; the other buckets have no
// comparison baseline and report stable.
func ComputeVelocity(todayCount, sevenDayCount, thirtyDayCount int, now time.Time) VelocityReport {
	now = now.UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	hoursToday := now.Sub(todayStart).Hours()
	if hoursToday < 1 {
		hoursToday = 1
	}

	sevenPerDay := round2(float64(sevenDayCount) / 7)
	thirtyPerDay := round2(float64(thirtyDayCount) / 30)
	trend, pct := trendOf(sevenPerDay, thirtyPerDay)

	return VelocityReport{
		Today: VelocityMetric{
			Period:        "today",
			TweetsPerHour: round2(float64(todayCount) / hoursToday),
			TweetsPerDay:  float64(todayCount),
			Trend:         "stable",
		},
		SevenDays: VelocityMetric{
			Period:          "7days",
			TweetsPerHour:   round2(float64(sevenDayCount) / (7 * 24)),
			TweetsPerDay:    sevenPerDay,
			Trend:           trend,
			TrendPercentage: pct,
		},
		ThirtyDays: VelocityMetric{
			Period:        "30days",
			TweetsPerHour: round2(float64(thirtyDayCount) / (30 * 24)),
			TweetsPerDay:  thirtyPerDay,
			Trend:         "stable",
		},
	}
}

// trendOf compares a recent per-day rate with an overall baseline.
// Differences under 5% are reported as stable with 0%.
func trendOf(recent, overall float64) (string, float64) {
	if overall == 0 {
		return "stable", 0
	}
	diff := recent - overall
	pct := math.Round(math.Abs(diff) / overall * 100)
	if pct < 5 {
		return "stable", 0
	}
	if diff > 0 {
		return "increasing", pct
	}
	return "decreasing", pct
}
