package analytics

import (
	"time"

	"tweet_tracker/internal/domain"
)

type HourlyStat struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type HourlyReport struct {
	Hourly      []HourlyStat `json:"hourly"`
	PeakHours   []int        `json:"peakHours"`
	SilentHours []int        `json:"silentHours"`
	MaxCount    int          `json:"maxCount"`
	TotalTweets int          `json:"totalTweets"`
}

// ComputeHourly buckets posts into 24 UTC hours. Peak hours are the ones
// sharing the maximum count (when non-zero); silent hours have no posts.
func ComputeHourly(posts []domain.Post) HourlyReport {
	report := HourlyReport{
		Hourly:      make([]HourlyStat, 24),
		PeakHours:   []int{},
		SilentHours: []int{},
	}
	for h := range report.Hourly {
		report.Hourly[h].Hour = h
	}

	for _, p := range posts {
		report.Hourly[p.CreatedAt.UTC().Hour()].Count++
	}

	for _, h := range report.Hourly {
		if h.Count > report.MaxCount {
			report.MaxCount = h.Count
		}
		report.TotalTweets += h.Count
	}

	for _, h := range report.Hourly {
		if h.Count == report.MaxCount && report.MaxCount > 0 {
			report.PeakHours = append(report.PeakHours, h.Hour)
		}
		if h.Count == 0 {
			report.SilentHours = append(report.SilentHours, h.Hour)
		}
	}

	return report
}

type WeekdayStat struct {
	Weekday int     `json:"weekday"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type WeekdayReport struct {
	WeekSummary   []WeekdayStat `json:"weekSummary"`
	TopDay        int           `json:"topDay"`
	TopDayName    string        `json:"topDayName"`
	TotalTweets   int           `json:"totalTweets"`
	AveragePerDay float64       `json:"averagePerDay"`
}

// ComputeWeekday buckets posts into UTC weekdays, Sunday first. The
// per-day Average field keeps the dashboard's ad hoc formula
// count / max(1, total/7) and is a relative-activity heuristic, not a
// weekly rate.
func ComputeWeekday(posts []domain.Post) WeekdayReport {
	report := WeekdayReport{WeekSummary: make([]WeekdayStat, 7)}
	for d := range report.WeekSummary {
		report.WeekSummary[d].Weekday = d
	}

	for _, p := range posts {
		report.WeekSummary[int(p.CreatedAt.UTC().Weekday())].Count++
		report.TotalTweets++
	}

	report.AveragePerDay = round2(float64(report.TotalTweets) / 7)

	baseline := float64(report.TotalTweets) / 7
	if baseline < 1 {
		baseline = 1
	}
	for d := range report.WeekSummary {
		if report.WeekSummary[d].Count > 0 {
			report.WeekSummary[d].Average = round2(float64(report.WeekSummary[d].Count) / baseline)
		}
		if report.WeekSummary[d].Count > report.WeekSummary[report.TopDay].Count {
			report.TopDay = d
		}
	}
	report.TopDayName = weekdayNames[report.TopDay]

	return report
}

type DayStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type MonthReport struct {
	TotalTweets   int       `json:"totalTweets"`
	AveragePerDay float64   `json:"averagePerDay"`
	ZeroTweetDays int       `json:"zeroTweetDays"`
	TweetsPerDay  []DayStat `json:"tweetsPerDay"`
	Month         string    `json:"month"`
}

// ComputeMonth builds the month-to-date per-day series from posts already
// restricted to the current UTC month.
func ComputeMonth(posts []domain.Post, now time.Time) MonthReport {
	now = now.UTC()
	report := MonthReport{
		Month:        now.Format("2006-01"),
		TweetsPerDay: []DayStat{},
	}

	counts := make(map[string]int)
	for _, p := range posts {
		counts[p.CreatedAt.UTC().Format("2006-01-02")]++
	}

	daysSoFar := now.Day()
	for day := 1; day <= daysSoFar; day++ {
		date := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		count := counts[date]
		report.TweetsPerDay = append(report.TweetsPerDay, DayStat{Date: date, Count: count})
		report.TotalTweets += count
		if count == 0 {
			report.ZeroTweetDays++
		}
	}

	if daysSoFar > 0 {
		report.AveragePerDay = round2(float64(report.TotalTweets) / float64(daysSoFar))
	}

	return report
}

type TodayReport struct {
	Count          int    `json:"count"`
	FirstTweetTime string `json:"firstTweetTime,omitempty"`
	LastTweetTime  string `json:"lastTweetTime,omitempty"`
	Date           string `json:"date"`
}

// ComputeToday summarizes posts already restricted to the current UTC day,
// sorted ascending.
func ComputeToday(posts []domain.Post, now time.Time) TodayReport {
	report := TodayReport{
		Count: len(posts),
		Date:  now.UTC().Format("2006-01-02"),
	}
	if len(posts) > 0 {
		report.FirstTweetTime = posts[0].CreatedAt.UTC().Format(time.RFC3339)
		report.LastTweetTime = posts[len(posts)-1].CreatedAt.UTC().Format(time.RFC3339)
	}
	return report
}

// ComputeDailySeries buckets posts into the trailing `days` UTC days ending
// today, oldest first.
func ComputeDailySeries(posts []domain.Post, now time.Time, days int) []DayStat {
	now = now.UTC()
	counts := make(map[string]int)
	for _, p := range posts {
		counts[p.CreatedAt.UTC().Format("2006-01-02")]++
	}

	series := make([]DayStat, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Date(now.Year(), now.Month(), now.Day()-i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		series = append(series, DayStat{Date: date, Count: counts[date]})
	}
	return series
}
