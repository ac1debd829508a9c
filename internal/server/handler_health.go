package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Uptime     string `json:"uptime"`
	Credential string `json:"credential"`
	FetchLog   string `json:"fetch_log"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	credential := "configured"
	if s.config.ServiceKey == "" {
		credential = "missing"
	}
	fetchLog := "enabled"
	if s.store == nil {
		fetchLog = "disabled"
	}

	respondOK(w, reqID, healthResponse{
		Status:     "healthy",
		Version:    "0.1.0",
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Credential: credential,
		FetchLog:   fetchLog,
	})
}
