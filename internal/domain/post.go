package domain

import "time"

// Post is a single ingested post, keyed by the upstream-assigned ID.
// The three type flags are stored independently; display-side precedence
// lives in the analytics layer.
type Post struct {
	ID        string    `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	IsReply   bool      `db:"is_reply" json:"isReply"`
	IsRetweet bool      `db:"is_retweet" json:"isRetweet"`
	IsQuote   bool      `db:"is_quote" json:"isQuote"`
}

// RawPost is a post as delivered by the feed API, before the
// classification policy has been applied.
type RawPost struct {
	ID        string
	Text      string
	CreatedAt time.Time

	// Upstream classification signals.
	ReplyToID   string
	IsRetweeted bool
	QuoteFlag   bool
}

// PostFilter narrows store reads. The zero value selects everything,
// ordered ascending by creation time.
type PostFilter struct {
	ExcludeReplies bool
}

// UpsertResult reports the outcome of a batch upsert. InsertedIDs holds the
// IDs that were newly created rather than overwritten.
type UpsertResult struct {
	InsertedCount int
	ModifiedCount int
	InsertedIDs   map[string]struct{}
}

// IsNew reports whether the given post ID was inserted by the batch.
func (r *UpsertResult) IsNew(id string) bool {
	_, ok := r.InsertedIDs[id]
	return ok
}
