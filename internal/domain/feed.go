package domain

// FeedPage is one page of posts from the upstream feed API. Pages are
// assumed to arrive in strictly descending creation-time order; the
// incremental stop rule in the pipeline relies on that ordering.
type FeedPage struct {
	Posts       []RawPost
	HasNextPage bool
	NextCursor  string
}
