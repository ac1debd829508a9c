package server

import (
	"net/http"

	"github.com/me/narabid/internal/procurement"
	"github.com/me/narabid/pkg/model"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	q, fieldErrs := procurement.ParseParams(r.URL.Query(), s.defaults())
	if len(fieldErrs) > 0 {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid query parameters", fieldErrs...))
		return
	}

	res, err := s.search.Search(r.Context(), q)
	if err != nil {
		status, apiErr := procurement.Classify(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("search failed", "kind", q.Kind, "status", status, "error", err, "request_id", reqID)
		} else {
			s.logger.Warn("search rejected", "kind", q.Kind, "error", err, "request_id", reqID)
		}
		respondError(w, reqID, status, apiErr)
		return
	}

	w.Header().Set("Cache-Control", s.config.CacheControl())
	respondOK(w, reqID, res)
}

func (s *Server) defaults() procurement.Defaults {
	return procurement.Defaults{
		NumOfRows: s.config.DefaultRows,
		MaxPages:  s.config.DefaultMaxPages,
	}
}
