package ui

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/me/narabid/internal/procurement"
	"github.com/me/narabid/internal/store"
	"github.com/me/narabid/pkg/model"
)

// Searcher runs one procurement search.
type Searcher interface {
	Search(ctx context.Context, q procurement.Query) (*model.SearchResult, error)
}

// UI serves the HTML search pages.
type UI struct {
	search   Searcher
	store    store.Store // optional
	logger   *slog.Logger
	defaults procurement.Defaults
}

// New creates a UI handler. st may be nil when the fetch log is disabled.
func New(search Searcher, st store.Store, logger *slog.Logger, defaults procurement.Defaults) *UI {
	return &UI{
		search:   search,
		store:    st,
		logger:   logger.With("component", "ui"),
		defaults: defaults,
	}
}

type kindOption struct {
	Value    string
	Label    string
	Selected bool
}

// HandleSearch renders the search form and, when the request carries any
// query parameters, the results.
func (ui *UI) HandleSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, fieldErrs := procurement.ParseParams(values, ui.defaults)

	data := map[string]any{
		"Title":  "narabid",
		"Query":  q,
		"Kinds":  kindOptions(q.Kind),
		"Active": "search",
	}

	if len(values) == 0 {
		ui.render(w, http.StatusOK, "search", data)
		return
	}
	if len(fieldErrs) > 0 {
		data["Error"] = model.NewValidationError("invalid query parameters", fieldErrs...)
		ui.render(w, http.StatusBadRequest, "search", data)
		return
	}

	res, err := ui.search.Search(r.Context(), q)
	if err != nil {
		status, apiErr := procurement.Classify(err)
		ui.logger.Warn("search failed", "kind", q.Kind, "code", apiErr.Code, "error", err)
		data["Error"] = apiErr
		ui.render(w, status, "search", data)
		return
	}

	data["Result"] = res
	data["Title"] = res.Keyword + " - narabid"
	if res.Keyword == "" {
		data["Title"] = "narabid"
	}
	ui.render(w, http.StatusOK, "search", data)
}

// HandleFetches renders the recent upstream call log.
func (ui *UI) HandleFetches(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":  "Upstream calls - narabid",
		"Active": "fetches",
	}
	if ui.store == nil {
		data["Disabled"] = true
		ui.render(w, http.StatusOK, "fetches", data)
		return
	}

	opts := model.DefaultListOptions()
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		opts.Limit = n
	}
	opts.Clamp()

	entries, total, err := ui.store.ListFetches(r.Context(), opts)
	if err != nil {
		ui.renderError(w, "Failed to load fetch log", err)
		return
	}
	data["Entries"] = entries
	data["Total"] = total
	ui.render(w, http.StatusOK, "fetches", data)
}

func kindOptions(selected model.Kind) []kindOption {
	out := make([]kindOption, 0, len(model.AllKinds))
	for _, k := range model.AllKinds {
		out = append(out, kindOption{Value: string(k), Label: kindLabel(k), Selected: k == selected})
	}
	return out
}

func (ui *UI) render(w http.ResponseWriter, status int, template string, data map[string]any) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (ui *UI) renderError(w http.ResponseWriter, message string, err error) {
	ui.logger.Error(message, "error", err)
	data := map[string]any{
		"Title":   "Error - narabid",
		"Active":  "",
		"Message": message,
	}
	ui.render(w, http.StatusInternalServerError, "error", data)
}
