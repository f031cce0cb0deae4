package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tweet_tracker/internal/domain"
)

// PostReader is the slice of the post store the calculators need.
type PostReader interface {
	FindAll(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	FindRange(ctx context.Context, from, to time.Time, filter domain.PostFilter) ([]domain.Post, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Post, error)
}

// Service materializes post sets from the store and feeds them to the pure
// calculators. It is an explicitly constructed handle, not ambient state.
type Service struct {
	store  PostReader
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store PostReader, logger *slog.Logger, now func() time.Time) *Service {
	return &Service{
		store:  store,
		logger: logger.With("component", "analytics"),
		now:    now,
	}
}

func (s *Service) Bursts(ctx context.Context) (BurstReport, error) {
	posts, err := s.store.FindAll(ctx, domain.PostFilter{ExcludeReplies: true})
	if err != nil {
		return BurstReport{}, fmt.Errorf("load posts: %w", err)
	}
	return DetectBursts(posts, s.now()), nil
}

func (s *Service) Engagement(ctx context.Context) (EngagementReport, error) {
	posts, err := s.store.FindAll(ctx, domain.PostFilter{ExcludeReplies: true})
	if err != nil {
		return EngagementReport{}, fmt.Errorf("load posts: %w", err)
	}
	return ComputeEngagement(posts), nil
}

func (s *Service) Velocity(ctx context.Context) (VelocityReport, error) {
	now := s.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	todayCount, err := s.store.CountSince(ctx, todayStart)
	if err != nil {
		return VelocityReport{}, fmt.Errorf("count today: %w", err)
	}
	sevenCount, err := s.store.CountSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return VelocityReport{}, fmt.Errorf("count 7 days: %w", err)
	}
	thirtyCount, err := s.store.CountSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return VelocityReport{}, fmt.Errorf("count 30 days: %w", err)
	}

	return ComputeVelocity(todayCount, sevenCount, thirtyCount, now), nil
}

func (s *Service) ResponseTimes(ctx context.Context) (ResponseTimeReport, error) {
	posts, err := s.store.FindAll(ctx, domain.PostFilter{})
	if err != nil {
		return ResponseTimeReport{}, fmt.Errorf("load posts: %w", err)
	}
	return ComputeResponseTimes(posts), nil
}

func (s *Service) Hourly(ctx context.Context) (HourlyReport, error) {
	posts, err := s.store.FindAll(ctx, domain.PostFilter{})
	if err != nil {
		return HourlyReport{}, fmt.Errorf("load posts: %w", err)
	}
	return ComputeHourly(posts), nil
}

func (s *Service) Weekday(ctx context.Context) (WeekdayReport, error) {
	posts, err := s.store.FindAll(ctx, domain.PostFilter{})
	if err != nil {
		return WeekdayReport{}, fmt.Errorf("load posts: %w", err)
	}
	return ComputeWeekday(posts), nil
}

func (s *Service) Types(ctx context.Context) (TypeReport, error) {
	posts, err := s.store.FindAll(ctx, domain.PostFilter{})
	if err != nil {
		return TypeReport{}, fmt.Errorf("load posts: %w", err)
	}
	return ComputeTypes(posts), nil
}

func (s *Service) MonthToDate(ctx context.Context) (MonthReport, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)

	posts, err := s.store.FindRange(ctx, monthStart, tomorrow, domain.PostFilter{ExcludeReplies: true})
	if err != nil {
		return MonthReport{}, fmt.Errorf("load month posts: %w", err)
	}
	return ComputeMonth(posts, now), nil
}

func (s *Service) Today(ctx context.Context) (TodayReport, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	posts, err := s.store.FindRange(ctx, dayStart, dayStart.AddDate(0, 0, 1), domain.PostFilter{ExcludeReplies: true})
	if err != nil {
		return TodayReport{}, fmt.Errorf("load today posts: %w", err)
	}
	return ComputeToday(posts, now), nil
}

func (s *Service) LastSevenDays(ctx context.Context) ([]DayStat, error) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day()-6, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)

	posts, err := s.store.FindRange(ctx, from, to, domain.PostFilter{})
	if err != nil {
		return nil, fmt.Errorf("load week posts: %w", err)
	}
	return ComputeDailySeries(posts, now, 7), nil
}

func (s *Service) RecentPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.store.FindRecent(ctx, 50)
	if err != nil {
		return nil, fmt.Errorf("load recent posts: %w", err)
	}
	return posts, nil
}
