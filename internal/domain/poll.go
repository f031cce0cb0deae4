package domain

import "time"

// PollState is the singleton ingestion watermark. A nil state (or zero
// LastPollTime) means the pipeline has never run and the next run performs
// the initial backfill.
type PollState struct {
	LastPollTime time.Time `db:"last_poll_time"`
	LastPostID   string    `db:"last_post_id"`
}

// PollStats holds statistics about one pipeline run.
type PollStats struct {
	Fetched        int           `json:"fetched"`
	Upserted       int           `json:"upserted"`
	Modified       int           `json:"modified"`
	PagesProcessed int           `json:"pagesProcessed"`
	Published      int           `json:"published"`
	Backfill       bool          `json:"backfill"`
	Duration       time.Duration `json:"-"`
}
