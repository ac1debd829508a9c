package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/me/narabid/internal/config"
	"github.com/me/narabid/internal/g2b"
	"github.com/me/narabid/internal/procurement"
	"github.com/me/narabid/internal/store"
	"github.com/me/narabid/pkg/model"
)

const upstreamBids = `{"response":{"header":{"resultCode":"00"},"body":{"items":[
	{"bidNtceNo":"20240101001","bidNtceOrd":"1","bidNtceNm":"국도 3호선 도로 확장","ntceInsttNm":"국토교통부","presmptPrce":"1,234,000원","bidNtceDt":"2024-01-02 09:00:00"},
	{"bidNtceNo":"20240101002","bidNtceOrd":"0","bidNtceNm":"청사 전기설비 점검","ntceInsttNm":"조달청","presmptPrce":0},
	{"bidNtceNm":"AI 시스템 구축","ntceInsttNm":"과학기술정보통신부","presmptPrce":5000000}
],"numOfRows":100,"pageNo":1,"totalCount":3}}}`

var testNow = time.Date(2024, 1, 30, 3, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fixture wires a Server to a fake upstream through the real client and
// service. calls counts upstream requests.
type fixture struct {
	srv      *Server
	upstream *httptest.Server
	calls    atomic.Int32
	lastURL  atomic.Value
}

func newFixture(t *testing.T, serviceKey string, st store.Store, handler http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{}
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(upstreamBids))
		}
	}
	f.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.lastURL.Store(r.URL.String())
		handler(w, r)
	}))
	t.Cleanup(f.upstream.Close)

	cfg := config.DefaultServerConfig()
	cfg.ServiceKey = serviceKey
	cfg.BaseURL = f.upstream.URL

	logger := quietLogger()
	clientOpts := []g2b.Option{}
	if st != nil {
		clientOpts = append(clientOpts, g2b.WithRecorder(st))
	}
	client := g2b.NewClient(g2b.ClientConfig{BaseURL: cfg.BaseURL, ServiceKey: cfg.ServiceKey, Timeout: time.Second}, logger, clientOpts...)
	svc := procurement.NewService(client, logger, procurement.WithClock(func() time.Time { return testNow }))
	f.srv = New(cfg, svc, st, logger)
	return f
}

func testServer(t *testing.T) *Server {
	return newFixture(t, "test-key", nil, nil).srv
}

// envelope is used to decode the standard response envelope.
type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Error     *model.APIError `json:"error"`
}

func do(t *testing.T, srv *Server, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid JSON: %v body=%s", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func doGet(t *testing.T, srv *Server, path string) envelope {
	t.Helper()
	w, env := do(t, srv, http.MethodGet, path)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status=%d, want 200, body=%s", path, w.Code, w.Body.String())
	}
	return env
}

func decodeResult(t *testing.T, env envelope) model.SearchResult {
	t.Helper()
	var res model.SearchResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return res
}

func TestDiscovery(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/")
	if env.Status != "ok" {
		t.Errorf("status = %q, want ok", env.Status)
	}
	if env.RequestID == "" {
		t.Error("request_id is empty")
	}

	var data struct {
		Name      string   `json:"name"`
		Kinds     []string `json:"kinds"`
		Endpoints []struct {
			Path string `json:"path"`
		} `json:"endpoints"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Name != "narabid API" {
		t.Errorf("name = %q, want narabid API", data.Name)
	}
	if len(data.Kinds) != 3 {
		t.Errorf("kinds = %v", data.Kinds)
	}
	if len(data.Endpoints) < 3 {
		t.Errorf("endpoints count = %d, want >= 3", len(data.Endpoints))
	}
}

func TestHealth(t *testing.T) {
	srv := newFixture(t, "", nil, nil).srv
	env := doGet(t, srv, "/api/v1/health")

	var data struct {
		Status     string `json:"status"`
		Version    string `json:"version"`
		GoVersion  string `json:"go_version"`
		Credential string `json:"credential"`
		FetchLog   string `json:"fetch_log"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Status != "healthy" {
		t.Errorf("status = %q, want healthy", data.Status)
	}
	if data.GoVersion == "" {
		t.Error("go_version is empty")
	}
	if data.Credential != "missing" {
		t.Errorf("credential = %q, want missing", data.Credential)
	}
	if data.FetchLog != "disabled" {
		t.Errorf("fetch_log = %q, want disabled", data.FetchLog)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer(t)
	w, env := do(t, srv, http.MethodGet, "/api/v1/health")
	got := w.Header().Get("X-Request-ID")
	if !strings.HasPrefix(got, "req_") {
		t.Errorf("X-Request-ID = %q", got)
	}
	if got != env.RequestID {
		t.Errorf("header %q != body %q", got, env.RequestID)
	}
}

func TestNotFound(t *testing.T) {
	srv := testServer(t)
	w, env := do(t, srv, http.MethodGet, "/api/v1/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if env.Error == nil || env.Error.Code != model.ErrNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestSearch_KeywordFilter(t *testing.T) {
	f := newFixture(t, "test-key", nil, nil)
	w, env := do(t, f.srv, http.MethodGet, "/api/v1/procurement?kind=bid&q=%EB%8F%84%EB%A1%9C")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=60, s-maxage=300" {
		t.Errorf("Cache-Control = %q", cc)
	}

	res := decodeResult(t, env)
	if res.Kind != model.KindBid || res.Keyword != "도로" {
		t.Errorf("kind/keyword = %q/%q", res.Kind, res.Keyword)
	}
	if len(res.Items) != 1 || res.Meta.TotalMatched != 1 || res.Meta.TotalScanned != 3 {
		t.Errorf("items=%d matched=%d scanned=%d", len(res.Items), res.Meta.TotalMatched, res.Meta.TotalScanned)
	}
	if res.Items[0].Amount != "1,234,000" {
		t.Errorf("amount = %q", res.Items[0].Amount)
	}
	if res.Meta.DateRange != "2024-01-01 ~ 2024-01-30" {
		t.Errorf("dateRange = %q", res.Meta.DateRange)
	}
	if strings.Contains(res.UpstreamURL, "test-key") || !strings.Contains(res.UpstreamURL, "REDACTED") {
		t.Errorf("upstreamUrl not redacted: %s", res.UpstreamURL)
	}
	if f.calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", f.calls.Load())
	}
}

func TestSearch_FilterOffAndUnknownKind(t *testing.T) {
	f := newFixture(t, "test-key", nil, nil)
	env := doGet(t, f.srv, "/api/v1/procurement?kind=tender&q=xyz&filter=off")
	res := decodeResult(t, env)
	if res.Kind != model.KindBid {
		t.Errorf("kind = %q, want bid", res.Kind)
	}
	if res.Meta.FilterEnabled {
		t.Error("filterEnabled = true, want false")
	}
	if len(res.Items) != 3 {
		t.Errorf("items = %d, want 3", len(res.Items))
	}
}

func TestSearch_AwardCategory(t *testing.T) {
	f := newFixture(t, "test-key", nil, nil)
	doGet(t, f.srv, "/api/v1/procurement?kind=award&category=3&numOfRows=20")
	u, _ := f.lastURL.Load().(string)
	if !strings.Contains(u, "bsnsDivCd=3") {
		t.Errorf("upstream URL missing category: %s", u)
	}
	if !strings.Contains(u, "numOfRows=20") {
		t.Errorf("upstream URL missing numOfRows: %s", u)
	}
}

func TestSearch_InvalidNumber(t *testing.T) {
	f := newFixture(t, "test-key", nil, nil)
	w, env := do(t, f.srv, http.MethodGet, "/api/v1/procurement?pageNo=abc&maxPages=1.5")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if env.Error == nil || env.Error.Code != model.ErrValidation {
		t.Fatalf("error = %+v", env.Error)
	}
	if len(env.Error.Details) != 2 {
		t.Errorf("details = %+v", env.Error.Details)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", w.Header().Get("Cache-Control"))
	}
	if f.calls.Load() != 0 {
		t.Errorf("upstream called %d times", f.calls.Load())
	}
}

func TestSearch_MissingCredential(t *testing.T) {
	f := newFixture(t, "", nil, nil)
	w, env := do(t, f.srv, http.MethodGet, "/api/v1/procurement")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if env.Error == nil || env.Error.Code != model.ErrConfig {
		t.Errorf("error = %+v", env.Error)
	}
	if f.calls.Load() != 0 {
		t.Errorf("upstream called %d times", f.calls.Load())
	}
}

func TestSearch_UpstreamFailure(t *testing.T) {
	f := newFixture(t, "test-key", nil, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "SERVICE ERROR", http.StatusServiceUnavailable)
	})
	w, env := do(t, f.srv, http.MethodGet, "/api/v1/procurement?kind=contract")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if env.Error == nil || env.Error.Code != model.ErrUpstream {
		t.Fatalf("error = %+v", env.Error)
	}
	if !strings.Contains(env.Error.Detail, "SERVICE ERROR") {
		t.Errorf("detail = %q", env.Error.Detail)
	}
	if !strings.Contains(env.Error.UpstreamURL, "ServiceKey=REDACTED") {
		t.Errorf("upstream_url = %q", env.Error.UpstreamURL)
	}
	if env.Data != nil && string(env.Data) != "null" {
		t.Errorf("data = %s, want null", env.Data)
	}
}

func TestPreflight(t *testing.T) {
	srv := testServer(t)
	w, _ := do(t, srv, http.MethodOptions, "/api/v1/procurement")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow-origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "GET") {
		t.Errorf("allow-methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestFetches_Disabled(t *testing.T) {
	srv := testServer(t)
	w, env := do(t, srv, http.MethodGet, "/api/v1/fetches")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if env.Error == nil || env.Error.Code != model.ErrUnavailable {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestFetches_RecordsSearchCalls(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:", quietLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := newFixture(t, "test-key", st, nil)
	doGet(t, f.srv, "/api/v1/procurement?q=x")

	env := doGet(t, f.srv, "/api/v1/fetches?limit=5")
	var data struct {
		Total   int                    `json:"total"`
		Entries []*model.FetchLogEntry `json:"entries"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Total != 1 || len(data.Entries) != 1 {
		t.Fatalf("total=%d entries=%d", data.Total, len(data.Entries))
	}
	e := data.Entries[0]
	if e.Status != 200 || e.Items != 3 || e.Kind != model.KindBid {
		t.Errorf("entry = %+v", e)
	}
	if strings.Contains(e.URL, "test-key") {
		t.Errorf("credential stored in fetch log: %s", e.URL)
	}

	w, _ := do(t, f.srv, http.MethodGet, "/api/v1/fetches?limit=x")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
}

func TestUIRoutesMounted(t *testing.T) {
	srv := testServer(t)
	w, _ := doHTML(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<form") {
		t.Error("search form not served at /")
	}
}

func doHTML(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w, w.Body.String()
}
