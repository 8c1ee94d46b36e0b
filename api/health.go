package api

import (
	"database/sql"
	"net/http"

	"github.com/Skryldev/jobly/db"
)

type healthResponse struct {
	Status  string                 `json:"status"`
	Pool    sql.DBStats            `json:"pool"`
	Queries *db.QueryStatsSnapshot `json:"queries,omitempty"`
}

// GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	resp := healthResponse{Status: "ok", Pool: s.db.Stats()}
	if s.stats != nil {
		snap := s.stats.Snapshot()
		resp.Queries = &snap
	}

	status := http.StatusOK
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "api: health ping failed", "error", err)
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
	return nil
}
