package server

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/poll", s.handlePoll)
	s.mux.HandleFunc("GET /api/cron/poll", s.handleCronPoll)

	s.mux.HandleFunc("GET /api/stats/bursts", s.handleBursts)
	s.mux.HandleFunc("GET /api/stats/engagement", s.handleEngagement)
	s.mux.HandleFunc("GET /api/stats/velocity", s.handleVelocity)
	s.mux.HandleFunc("GET /api/stats/response-time", s.handleResponseTime)
	s.mux.HandleFunc("GET /api/stats/hourly", s.handleHourly)
	s.mux.HandleFunc("GET /api/stats/weekday", s.handleWeekday)
	s.mux.HandleFunc("GET /api/stats/types", s.handleTypes)
	s.mux.HandleFunc("GET /api/stats/month", s.handleMonth)
	s.mux.HandleFunc("GET /api/stats/today", s.handleToday)
	s.mux.HandleFunc("GET /api/stats/7days", s.handleSevenDays)
	s.mux.HandleFunc("GET /api/stats/poll", s.handlePollState)

	s.mux.HandleFunc("GET /api/tweets/recent", s.handleRecent)

	s.mux.HandleFunc("DELETE /api/admin/clear-data", s.handleClearData)
}
