package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Kinds       []string       `json:"kinds"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "narabid API",
		Version:     "v1",
		Description: "Read-only search over recent public procurement bid notices, award results and contracts",
		Kinds:       []string{"bid", "award", "contract"},
		Endpoints: []endpointInfo{
			{"/api/v1/procurement", []string{"GET"}, "Search recent records. Query: kind, q, pageNo, numOfRows, maxPages, filter, bsnsDivCd"},
			{"/api/v1/fetches", []string{"GET"}, "Recent upstream calls, newest first. Query: limit"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
