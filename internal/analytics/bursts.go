package analytics

import (
	"time"

	"tweet_tracker/internal/domain"
)

const (
	burstWindow   = 30 * time.Minute
	burstMinPosts = 3
)

// Burst is a run of posts whose members all fall within burstWindow of the
// run's first post.
type Burst struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	TweetCount      int       `json:"tweetCount"`
	DurationMinutes float64   `json:"durationMinutes"`
	TweetsPerMinute float64   `json:"tweetsPerMinute"`
}

type BurstReport struct {
	TotalBursts          int     `json:"totalBursts"`
	AverageTweetsPerBurst float64 `json:"averageTweetsPerBurst"`
	AverageBurstDuration float64  `json:"averageBurstDuration"`
	LongestBurst         *Burst  `json:"longestBurst"`
	RecentBursts         []Burst `json:"recentBursts"`
	BurstsPerWeek        float64 `json:"burstsPerWeek"`
	// QuietPeriodsPerWeek is an ad hoc heuristic kept for continuity:
	// max(0, (posts - bursts) / 10), rounded to 2 decimals, 0 when there
	// are no bursts at all.
	QuietPeriodsPerWeek float64 `json:"quietPeriodsPerWeek"`
}

// DetectBursts scans posts (non-reply, sorted ascending by creation time)
// for runs of at least burstMinPosts within burstWindow of the run's first
// post. Bursts do not overlap: once claimed, a run's members are not
// reconsidered. Fewer than 3 posts yield a zero report.
func DetectBursts(posts []domain.Post, now time.Time) BurstReport {
	report := BurstReport{RecentBursts: []Burst{}}
	if len(posts) < burstMinPosts {
		return report
	}

	var bursts []Burst
	i := 0
	for i < len(posts) {
		start := posts[i].CreatedAt
		end := i
		for end+1 < len(posts) && posts[end+1].CreatedAt.Sub(start) <= burstWindow {
			end++
		}

		count := end - i + 1
		if count < burstMinPosts {
			i++
			continue
		}

		durationMinutes := posts[end].CreatedAt.Sub(start).Minutes()
		if durationMinutes < 1 {
			durationMinutes = 1
		}
		bursts = append(bursts, Burst{
			StartTime:       start,
			EndTime:         posts[end].CreatedAt,
			TweetCount:      count,
			DurationMinutes: round2(durationMinutes),
			TweetsPerMinute: round2(float64(count) / durationMinutes),
		})
		i = end + 1
	}

	report.TotalBursts = len(bursts)
	if len(bursts) == 0 {
		return report
	}

	var countSum, durationSum float64
	for _, b := range bursts {
		countSum += float64(b.TweetCount)
		durationSum += b.DurationMinutes
	}
	report.AverageTweetsPerBurst = round2(countSum / float64(len(bursts)))
	report.AverageBurstDuration = round2(durationSum / float64(len(bursts)))

	// First burst with the maximum count wins ties.
	longest := bursts[0]
	for _, b := range bursts[1:] {
		if b.TweetCount > longest.TweetCount {
			longest = b
		}
	}
	report.LongestBurst = &longest

	recent := bursts
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	for j := len(recent) - 1; j >= 0; j-- {
		report.RecentBursts = append(report.RecentBursts, recent[j])
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	for _, b := range bursts {
		if !b.StartTime.Before(weekAgo) {
			report.BurstsPerWeek++
		}
	}

	quiet := float64(len(posts)-len(bursts)) / 10
	if quiet < 0 {
		quiet = 0
	}
	report.QuietPeriodsPerWeek = round2(quiet)

	return report
}
