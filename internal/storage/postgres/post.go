package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"tweet_tracker/internal/domain"
)

type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

// UpsertMany writes the batch in one statement keyed on the upstream post
// ID. Conflicting rows are fully replaced, so re-ingesting the same post is
// idempotent. `xmax = 0` distinguishes freshly inserted rows from updates.
func (s *PostStore) UpsertMany(ctx context.Context, posts []domain.Post) (*domain.UpsertResult, error) {
	result := &domain.UpsertResult{InsertedIDs: make(map[string]struct{})}
	if len(posts) == 0 {
		return result, nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO posts (id, text, created_at, is_reply, is_retweet, is_quote) VALUES ")
	args := make([]interface{}, 0, len(posts)*6)

	for i, p := range posts {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		sb.WriteString("($" + strconv.Itoa(base+1))
		for j := 2; j <= 6; j++ {
			sb.WriteString(", $" + strconv.Itoa(base+j))
		}
		sb.WriteString(")")
		args = append(args, p.ID, p.Text, p.CreatedAt, p.IsReply, p.IsRetweet, p.IsQuote)
	}

	sb.WriteString(`
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			created_at = EXCLUDED.created_at,
			is_reply = EXCLUDED.is_reply,
			is_retweet = EXCLUDED.is_retweet,
			is_quote = EXCLUDED.is_quote
		RETURNING id, (xmax = 0) AS inserted`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var inserted bool
		if err := rows.Scan(&id, &inserted); err != nil {
			return nil, err
		}
		if inserted {
			result.InsertedCount++
			result.InsertedIDs[id] = struct{}{}
		} else {
			result.ModifiedCount++
		}
	}

	return result, rows.Err()
}

// FindAll returns posts ordered ascending by creation time.
func (s *PostStore) FindAll(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	query := selectPosts + whereFilter(filter, false) + " ORDER BY created_at ASC"

	posts := []domain.Post{}
	err := s.db.SelectContext(ctx, &posts, query)
	return posts, err
}

// FindRange returns posts with created_at in [from, to), ascending.
func (s *PostStore) FindRange(ctx context.Context, from, to time.Time, filter domain.PostFilter) ([]domain.Post, error) {
	query := selectPosts +
		" WHERE created_at >= $1 AND created_at < $2" +
		whereFilter(filter, true) +
		" ORDER BY created_at ASC"

	posts := []domain.Post{}
	err := s.db.SelectContext(ctx, &posts, query, from, to)
	return posts, err
}

// CountSince counts posts with created_at >= since.
func (s *PostStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM posts WHERE created_at >= $1", since)
	return count, err
}

// CountRange counts posts with created_at in [from, to).
func (s *PostStore) CountRange(ctx context.Context, from, to time.Time, filter domain.PostFilter) (int, error) {
	query := "SELECT COUNT(*) FROM posts WHERE created_at >= $1 AND created_at < $2" +
		whereFilter(filter, true)

	var count int
	err := s.db.GetContext(ctx, &count, query, from, to)
	return count, err
}

// FindRecent returns the newest posts first.
func (s *PostStore) FindRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	posts := []domain.Post{}
	err := s.db.SelectContext(ctx, &posts,
		selectPosts+" ORDER BY created_at DESC LIMIT $1", limit)
	return posts, err
}

// DeleteAll removes every post. Administrative reset only.
func (s *PostStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM posts")
	return err
}

const selectPosts = "SELECT id, text, created_at, is_reply, is_retweet, is_quote FROM posts"

func whereFilter(filter domain.PostFilter, hasWhere bool) string {
	if !filter.ExcludeReplies {
		return ""
	}
	if hasWhere {
		return " AND NOT is_reply"
	}
	return " WHERE NOT is_reply"
}
