package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"tweet_tracker/internal/domain"
)

type errorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Error("request failed", "status", status, "error", err)
	s.writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	stats, err := s.poller.Poll(r.Context())
	if err != nil {
		s.writeError(w, pollStatusCode(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"fetched":        stats.Fetched,
		"upserted":       stats.Upserted,
		"modified":       stats.Modified,
		"pagesProcessed": stats.PagesProcessed,
		"published":      stats.Published,
		"backfill":       stats.Backfill,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCronPoll is the scheduled trigger: same pipeline as handlePoll but
// guarded by the shared cron secret.
func (s *Server) handleCronPoll(w http.ResponseWriter, r *http.Request) {
	if s.cronSecret != "" {
		auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(auth), []byte(s.cronSecret)) != 1 {
			s.writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
	}
	s.handlePoll(w, r)
}

func pollStatusCode(err error) int {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) handleBursts(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Bursts(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleEngagement(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Engagement(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleVelocity(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Velocity(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleResponseTime(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.ResponseTimes(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Hourly(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWeekday(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Weekday(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Types(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.MonthToDate(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Today(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSevenDays(w http.ResponseWriter, r *http.Request) {
	series, err := s.stats.LastSevenDays(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, series)
}

func (s *Server) handlePollState(w http.ResponseWriter, r *http.Request) {
	state, err := s.pollState.Get(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := map[string]any{
		"lastPollTime": nil,
		"lastTweetId":  nil,
	}
	if state != nil {
		resp["lastPollTime"] = state.LastPollTime.UTC().Format(time.RFC3339)
		if state.LastPostID != "" {
			resp["lastTweetId"] = state.LastPostID
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	posts, err := s.stats.RecentPosts(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.DeleteAll(r.Context()); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.pollState.Delete(r.Context()); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "data cleared"})
}
