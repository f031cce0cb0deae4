package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tweet_tracker/internal/domain"
)

// pollStateKey is the fixed primary key of the singleton watermark row.
const pollStateKey = "last_poll"

type PollStateStore struct {
	db *sqlx.DB
}

func NewPollStateStore(db *sqlx.DB) *PollStateStore {
	return &PollStateStore{db: db}
}

// Get returns the current watermark, or nil when the pipeline has never run.
func (s *PollStateStore) Get(ctx context.Context) (*domain.PollState, error) {
	var state domain.PollState
	err := s.db.GetContext(ctx, &state,
		"SELECT last_poll_time, last_post_id FROM poll_state WHERE id = $1", pollStateKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Set upserts the singleton watermark row.
func (s *PollStateStore) Set(ctx context.Context, state *domain.PollState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_state (id, last_poll_time, last_post_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			last_poll_time = EXCLUDED.last_poll_time,
			last_post_id = EXCLUDED.last_post_id`,
		pollStateKey, state.LastPollTime, state.LastPostID,
	)
	return err
}

// Delete removes the watermark so the next run performs a full backfill.
func (s *PollStateStore) Delete(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM poll_state WHERE id = $1", pollStateKey)
	return err
}
