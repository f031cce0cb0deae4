package twitterio

import "encoding/json"

// apiResponse mirrors the twitterapi.io last_tweets payload.
type apiResponse struct {
	Status      string   `json:"status"`
	Code        int      `json:"code"`
	Msg         string   `json:"msg"`
	Data        *apiData `json:"data"`
	HasNextPage bool     `json:"has_next_page"`
	NextCursor  string   `json:"next_cursor"`
}

type apiData struct {
	// Tweets is kept raw so a missing or non-array field can be told apart
	// from an empty page.
	Tweets json.RawMessage `json:"tweets"`
}

type apiTweet struct {
	ID                string          `json:"id"`
	Text              string          `json:"text"`
	CreatedAt         string          `json:"createdAt"`
	InReplyToStatusID string          `json:"in_reply_to_status_id"`
	RetweetedStatus   json.RawMessage `json:"retweeted_status"`
	IsQuoteStatus     bool            `json:"is_quote_status"`
}
