package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"tweet_tracker/internal/domain"
)

type PostStore interface {
	UpsertMany(ctx context.Context, posts []domain.Post) (*domain.UpsertResult, error)
}

type PollStateStore interface {
	Get(ctx context.Context) (*domain.PollState, error)
	Set(ctx context.Context, state *domain.PollState) error
}

// FeedClient fetches one timeline page per call. An empty cursor requests
// the first page. Pages are expected in strictly descending creation-time
// order; the incremental stop rule depends on it.
type FeedClient interface {
	FetchPage(ctx context.Context, cursor string) (*domain.FeedPage, error)
}

type Publisher interface {
	Publish(ctx context.Context, post *domain.Post, isNew bool) error
	Close() error
}
