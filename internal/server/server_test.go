package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet_tracker/internal/analytics"
	"tweet_tracker/internal/domain"
)

type stubPoller struct {
	stats *domain.PollStats
	err   error
	calls int
}

func (p *stubPoller) Poll(context.Context) (*domain.PollStats, error) {
	p.calls++
	return p.stats, p.err
}

type stubPostAdmin struct {
	deleted bool
	err     error
}

func (a *stubPostAdmin) DeleteAll(context.Context) error {
	a.deleted = true
	return a.err
}

type stubPollState struct {
	state   *domain.PollState
	deleted bool
}

func (s *stubPollState) Get(context.Context) (*domain.PollState, error) { return s.state, nil }
func (s *stubPollState) Delete(context.Context) error {
	s.deleted = true
	return nil
}

type stubPosts struct {
	posts []domain.Post
}

func (s *stubPosts) FindAll(context.Context, domain.PostFilter) ([]domain.Post, error) {
	return s.posts, nil
}

func (s *stubPosts) FindRange(context.Context, time.Time, time.Time, domain.PostFilter) ([]domain.Post, error) {
	return s.posts, nil
}

func (s *stubPosts) CountSince(context.Context, time.Time) (int, error) { return len(s.posts), nil }

func (s *stubPosts) FindRecent(context.Context, int) ([]domain.Post, error) { return s.posts, nil }

type serverFixture struct {
	server    *Server
	poller    *stubPoller
	posts     *stubPostAdmin
	pollState *stubPollState
}

func newFixture(cronSecret string) *serverFixture {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	now := func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) }

	f := &serverFixture{
		poller:    &stubPoller{stats: &domain.PollStats{Fetched: 2, Upserted: 2}},
		posts:     &stubPostAdmin{},
		pollState: &stubPollState{},
	}
	stats := analytics.NewService(&stubPosts{}, logger, now)
	f.server = New(f.poller, stats, f.posts, f.pollState, cronSecret, logger)
	return f
}

func (f *serverFixture) do(method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture("")

	rec := f.do(http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestPoll(t *testing.T) {
	f := newFixture("")

	rec := f.do(http.MethodPost, "/api/poll", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.poller.calls)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["fetched"])
}

func TestPoll_WrongMethod(t *testing.T) {
	f := newFixture("")

	rec := f.do(http.MethodGet, "/api/poll", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, f.poller.calls)
}

func TestPoll_UpstreamErrorMapsToBadGateway(t *testing.T) {
	f := newFixture("")
	f.poller.stats = nil
	f.poller.err = &domain.UpstreamError{StatusCode: 500, Body: "boom"}

	rec := f.do(http.MethodPost, "/api/poll", nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestPoll_OtherErrorMapsToInternal(t *testing.T) {
	f := newFixture("")
	f.poller.stats = nil
	f.poller.err = errors.New("db down")

	rec := f.do(http.MethodPost, "/api/poll", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCronPoll_Auth(t *testing.T) {
	f := newFixture("s3cret")

	rec := f.do(http.MethodGet, "/api/cron/poll", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/cron/poll", http.Header{"Authorization": {"Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.poller.calls)

	rec = f.do(http.MethodGet, "/api/cron/poll", http.Header{"Authorization": {"Bearer s3cret"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.poller.calls)
}

func TestCronPoll_NoSecretConfigured(t *testing.T) {
	f := newFixture("")

	rec := f.do(http.MethodGet, "/api/cron/poll", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.poller.calls)
}

func TestStatsEndpoints(t *testing.T) {
	f := newFixture("")

	paths := []string{
		"/api/stats/bursts",
		"/api/stats/engagement",
		"/api/stats/velocity",
		"/api/stats/response-time",
		"/api/stats/hourly",
		"/api/stats/weekday",
		"/api/stats/types",
		"/api/stats/month",
		"/api/stats/today",
		"/api/stats/7days",
		"/api/tweets/recent",
	}
	for _, path := range paths {
		rec := f.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), "path %s", path)
	}
}

func TestPollState(t *testing.T) {
	f := newFixture("")

	rec := f.do(http.MethodGet, "/api/stats/poll", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["lastPollTime"])
	assert.Nil(t, body["lastTweetId"])

	f.pollState.state = &domain.PollState{
		LastPollTime: time.Date(2026, 8, 15, 11, 0, 0, 0, time.UTC),
		LastPostID:   "123",
	}

	rec = f.do(http.MethodGet, "/api/stats/poll", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-08-15T11:00:00Z", body["lastPollTime"])
	assert.Equal(t, "123", body["lastTweetId"])
}

func TestClearData(t *testing.T) {
	f := newFixture("")

	rec := f.do(http.MethodDelete, "/api/admin/clear-data", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.posts.deleted)
	assert.True(t, f.pollState.deleted)
}

func TestClearData_DeleteFailure(t *testing.T) {
	f := newFixture("")
	f.posts.err = errors.New("db down")

	rec := f.do(http.MethodDelete, "/api/admin/clear-data", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, f.pollState.deleted)
}
