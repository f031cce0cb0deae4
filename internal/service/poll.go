package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tweet_tracker/internal/classify"
	"tweet_tracker/internal/config"
	"tweet_tracker/internal/domain"
)

// PollService is the ingestion pipeline: it pages through the upstream
// timeline, filters and classifies posts, persists them idempotently and
// advances the poll watermark.
type PollService struct {
	feed       FeedClient
	posts      PostStore
	state      PollStateStore
	publisher  Publisher
	classifier classify.Classifier
	logger     *slog.Logger
	config     config.PollConfig
	now        func() time.Time
}

func NewPollService(
	feed FeedClient,
	posts PostStore,
	state PollStateStore,
	publisher Publisher,
	classifier classify.Classifier,
	logger *slog.Logger,
	cfg config.PollConfig,
	now func() time.Time,
) *PollService {
	return &PollService{
		feed:       feed,
		posts:      posts,
		state:      state,
		publisher:  publisher,
		classifier: classifier,
		logger:     logger.With("component", "poll"),
		config:     cfg,
		now:        now,
	}
}

// Poll runs the pipeline once. The first-ever run backfills the current
// calendar month; later runs ingest only posts newer than the stored
// watermark. The watermark advances on every successful run, including
// empty ones, but never when the upstream call fails.
func (s *PollService) Poll(ctx context.Context) (*domain.PollStats, error) {
	start := s.now()

	state, err := s.state.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read poll state: %w", err)
	}

	backfill := state == nil || state.LastPollTime.IsZero()
	var lastPollTime time.Time
	if !backfill {
		lastPollTime = state.LastPollTime
	}

	maxPages := s.config.MaxPages
	if backfill {
		maxPages = s.config.BackfillMaxPages
	}
	monthStart := startOfMonth(start.UTC())

	s.logger.Info("starting poll",
		"backfill", backfill,
		"last_poll_time", lastPollTime,
		"max_pages", maxPages,
	)

	batch, pages, err := s.paginate(ctx, backfill, lastPollTime, monthStart, maxPages)
	if err != nil {
		return nil, err
	}

	stats := &domain.PollStats{
		Fetched:        len(batch),
		PagesProcessed: pages,
		Backfill:       backfill,
	}

	if len(batch) > 0 {
		result, err := s.posts.UpsertMany(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("upsert posts: %w", err)
		}
		stats.Upserted = result.InsertedCount
		stats.Modified = result.ModifiedCount

		if s.publisher != nil {
			for i := range batch {
				if err := s.publisher.Publish(ctx, &batch[i], result.IsNew(batch[i].ID)); err != nil {
					s.logger.Warn("publish failed", "post_id", batch[i].ID, "error", err)
					continue
				}
				stats.Published++
			}
		}
	}

	newState := &domain.PollState{LastPollTime: s.now()}
	if state != nil {
		newState.LastPostID = state.LastPostID
	}
	if latest := latestPost(batch); latest != nil {
		newState.LastPostID = latest.ID
	}
	if err := s.state.Set(ctx, newState); err != nil {
		return stats, fmt.Errorf("update poll state: %w", err)
	}

	stats.Duration = s.now().Sub(start)

	s.logger.Info("poll completed",
		"fetched", stats.Fetched,
		"upserted", stats.Upserted,
		"modified", stats.Modified,
		"pages", stats.PagesProcessed,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// paginate runs the cursor loop and returns the accepted, classified batch.
// A malformed page ends pagination without failing the run; any other fetch
// error aborts it.
func (s *PollService) paginate(
	ctx context.Context,
	backfill bool,
	lastPollTime time.Time,
	monthStart time.Time,
	maxPages int,
) ([]domain.Post, int, error) {
	var batch []domain.Post
	var oldestSeen time.Time
	cursor := ""
	pages := 0

	for {
		page, err := s.feed.FetchPage(ctx, cursor)
		if errors.Is(err, domain.ErrMalformedPage) {
			s.logger.Warn("malformed page, treating as end of data", "page", pages+1)
			return batch, pages, nil
		}
		if err != nil {
			return nil, pages, fmt.Errorf("fetch page %d: %w", pages+1, err)
		}
		pages++

		// Backfill is bounded to the current month, so posts from before
		// the month start on the boundary page are dropped rather than
		// ingested.
		var accepted []domain.RawPost
		if backfill {
			accepted = notBefore(page.Posts, monthStart)
		} else {
			accepted = newerThan(page.Posts, lastPollTime)
		}

		for _, raw := range page.Posts {
			if oldestSeen.IsZero() || raw.CreatedAt.Before(oldestSeen) {
				oldestSeen = raw.CreatedAt
			}
		}

		for _, raw := range accepted {
			batch = append(batch, s.toPost(raw))
		}

		s.logger.Debug("fetched page",
			"page", pages,
			"in_page", len(page.Posts),
			"accepted", len(accepted),
			"total", len(batch),
		)

		switch {
		case !page.HasNextPage || page.NextCursor == "":
			s.logger.Debug("no more pages")
		case pages >= maxPages:
			s.logger.Debug("reached page cap", "max_pages", maxPages)
		case backfill && !oldestSeen.IsZero() && oldestSeen.Before(monthStart):
			s.logger.Debug("reached month start boundary", "month_start", monthStart)
		case !backfill && len(accepted) == 0 && len(page.Posts) > 0:
			// Every post on this page predates the watermark; the time
			// boundary has been crossed.
			s.logger.Debug("crossed poll time boundary")
		default:
			cursor = page.NextCursor
			continue
		}
		return batch, pages, nil
	}
}

func (s *PollService) toPost(raw domain.RawPost) domain.Post {
	c := s.classifier.Classify(raw)
	return domain.Post{
		ID:        raw.ID,
		Text:      raw.Text,
		CreatedAt: raw.CreatedAt,
		IsReply:   c.IsReply,
		IsRetweet: c.IsRetweet,
		IsQuote:   c.IsQuote,
	}
}

func notBefore(posts []domain.RawPost, t time.Time) []domain.RawPost {
	var filtered []domain.RawPost
	for _, p := range posts {
		if !p.CreatedAt.Before(t) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func newerThan(posts []domain.RawPost, t time.Time) []domain.RawPost {
	var filtered []domain.RawPost
	for _, p := range posts {
		if p.CreatedAt.After(t) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func latestPost(posts []domain.Post) *domain.Post {
	var latest *domain.Post
	for i := range posts {
		if latest == nil || posts[i].CreatedAt.After(latest.CreatedAt) {
			latest = &posts[i]
		}
	}
	return latest
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
