package analytics

import (
	"regexp"
	"sort"

	"tweet_tracker/internal/domain"
)

// mediaRe sniffs common media host links in the post text. Media is a
// display category only; it is not one of the stored type flags.
var mediaRe = regexp.MustCompile(`(?i)pic\.twitter\.com|youtu\.be|imgur\.com|giphy\.com|vimeo\.com|vine\.co|twitpic\.com`)

type TypeCounts struct {
	Text     int `json:"text"`
	Replies  int `json:"replies"`
	Quotes   int `json:"quotes"`
	Retweets int `json:"retweets"`
	Media    int `json:"media"`
	Total    int `json:"total"`
}

type TypePercentages struct {
	TextPct     float64 `json:"textPct"`
	RepliesPct  float64 `json:"repliesPct"`
	QuotesPct   float64 `json:"quotesPct"`
	RetweetsPct float64 `json:"retweetsPct"`
	MediaPct    float64 `json:"mediaPct"`
}

type TypeBreakdownItem struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type TypeReport struct {
	Counts      TypeCounts          `json:"counts"`
	Percentages TypePercentages     `json:"percentages"`
	Breakdown   []TypeBreakdownItem `json:"breakdown"`
}

// ComputeTypes breaks the counted posts (everything except replies) down by
// display category with precedence retweet > quote > media > text.
func ComputeTypes(posts []domain.Post) TypeReport {
	var counts TypeCounts
	for _, p := range posts {
		if p.IsReply {
			counts.Replies++
			continue
		}
		counts.Total++
		switch {
		case p.IsRetweet:
			counts.Retweets++
		case p.IsQuote:
			counts.Quotes++
		case mediaRe.MatchString(p.Text):
			counts.Media++
		default:
			counts.Text++
		}
	}

	total := counts.Total
	if total == 0 {
		total = 1
	}
	pct := func(n int) float64 {
		return round2(float64(n) / float64(total) * 100)
	}

	percentages := TypePercentages{
		TextPct:     pct(counts.Text),
		QuotesPct:   pct(counts.Quotes),
		RetweetsPct: pct(counts.Retweets),
		MediaPct:    pct(counts.Media),
	}

	breakdown := []TypeBreakdownItem{}
	for _, item := range []TypeBreakdownItem{
		{Type: "Plain Text", Count: counts.Text, Percentage: percentages.TextPct},
		{Type: "Quotes", Count: counts.Quotes, Percentage: percentages.QuotesPct},
		{Type: "Retweets", Count: counts.Retweets, Percentage: percentages.RetweetsPct},
		{Type: "Media", Count: counts.Media, Percentage: percentages.MediaPct},
	} {
		if item.Count > 0 {
			breakdown = append(breakdown, item)
		}
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	return TypeReport{
		Counts:      counts,
		Percentages: percentages,
		Breakdown:   breakdown,
	}
}
