package server

import (
	"net/http"
	"strconv"

	"github.com/me/narabid/pkg/model"
)

type fetchesResponse struct {
	Total   int                    `json:"total"`
	Entries []*model.FetchLogEntry `json:"entries"`
}

func (s *Server) handleListFetches(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	if s.store == nil {
		respondError(w, reqID, http.StatusServiceUnavailable, &model.APIError{
			Code:    model.ErrUnavailable,
			Message: "fetch log is disabled",
		})
		return
	}

	opts := model.DefaultListOptions()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid limit",
				model.FieldError{Field: "limit", Message: "must be an integer"}))
			return
		}
		opts.Limit = n
	}
	opts.Clamp()

	entries, total, err := s.store.ListFetches(r.Context(), opts)
	if err != nil {
		s.logger.Error("list fetches", "error", err, "request_id", reqID)
		respondError(w, reqID, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: "could not read fetch log",
		})
		return
	}
	if entries == nil {
		entries = []*model.FetchLogEntry{}
	}
	respondOK(w, reqID, fetchesResponse{Total: total, Entries: entries})
}
