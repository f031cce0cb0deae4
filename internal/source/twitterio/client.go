package twitterio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"tweet_tracker/internal/config"
	"tweet_tracker/internal/domain"
)

// Client fetches single pages of a tracked account's timeline from
// twitterapi.io. Pagination policy lives in the poll service; the client
// only knows how to request one page for a cursor.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	username       string
	userID         string
	includeReplies bool
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New validates credentials and builds a client. Missing credentials are
// reported as a domain.ConfigError before any network call can happen.
func New(cfg config.TwitterConfig, logger *slog.Logger) (*Client, error) {
	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, "twitter.api_key")
	}
	if cfg.Username == "" && cfg.UserID == "" {
		missing = append(missing, "twitter.username or twitter.user_id")
	}
	if len(missing) > 0 {
		return nil, &domain.ConfigError{Missing: missing}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		username:       cfg.Username,
		userID:         cfg.UserID,
		includeReplies: cfg.IncludeReplies,
		maxAttempts:    cfg.Retry.MaxAttempts,
		initialBackoff: cfg.Retry.InitialBackoff,
		maxBackoff:     cfg.Retry.MaxBackoff,
		logger:         logger.With("source", "twitterio"),
	}, nil
}

// FetchPage requests one timeline page. An empty cursor means the first
// page. Transport failures are retried with exponential backoff; explicit
// upstream errors (bad HTTP status, non-success payload status) and
// malformed pages are returned to the caller immediately.
func (c *Client) FetchPage(ctx context.Context, cursor string) (*domain.FeedPage, error) {
	reqURL := c.pageURL(cursor)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		page, err := c.doRequest(ctx, reqURL)
		if err == nil || !retryable(err) {
			return page, err
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) pageURL(cursor string) string {
	params := url.Values{}
	if c.userID != "" {
		params.Set("userId", c.userID)
	} else {
		params.Set("userName", c.username)
	}
	if c.includeReplies {
		params.Set("includeReplies", "true")
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return c.baseURL + "?" + params.Encode()
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*domain.FeedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 512),
		}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if apiResp.Status != "" && apiResp.Status != "success" {
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     apiResp.Status,
			Body:       apiResp.Msg,
		}
	}

	return c.transform(&apiResp)
}

func (c *Client) transform(resp *apiResponse) (*domain.FeedPage, error) {
	if resp.Data == nil || len(resp.Data.Tweets) == 0 || bytes.Equal(bytes.TrimSpace(resp.Data.Tweets), []byte("null")) {
		return nil, domain.ErrMalformedPage
	}

	var tweets []apiTweet
	if err := json.Unmarshal(resp.Data.Tweets, &tweets); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedPage, err)
	}

	posts := make([]domain.RawPost, 0, len(tweets))
	for _, t := range tweets {
		createdAt, err := parseCreatedAt(t.CreatedAt)
		if err != nil {
			c.logger.Warn("failed to parse post date",
				"post_id", t.ID,
				"created_at", t.CreatedAt,
			)
			continue
		}

		posts = append(posts, domain.RawPost{
			ID:          t.ID,
			Text:        t.Text,
			CreatedAt:   createdAt,
			ReplyToID:   t.InReplyToStatusID,
			IsRetweeted: hasRetweetedStatus(t.RetweetedStatus),
			QuoteFlag:   t.IsQuoteStatus,
		})
	}

	return &domain.FeedPage{
		Posts:       posts,
		HasNextPage: resp.HasNextPage,
		NextCursor:  resp.NextCursor,
	}, nil
}

// The API has served both RFC 3339 and the classic Twitter timestamp format.
func parseCreatedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RubyDate, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func hasRetweetedStatus(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Only transport-level failures are worth retrying. Explicit upstream
// rejections and malformed pages will not get better on a second attempt.
func retryable(err error) bool {
	var upstream *domain.UpstreamError
	if err == nil || errors.As(err, &upstream) || errors.Is(err, domain.ErrMalformedPage) {
		return false
	}
	return true
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
