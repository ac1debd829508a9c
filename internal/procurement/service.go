package procurement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/narabid/internal/g2b"
	"github.com/me/narabid/pkg/model"
)

// ErrInternal wraps unexpected failures while shaping results.
var ErrInternal = errors.New("procurement: internal error")

// Fetcher retrieves the upstream pages for one search.
type Fetcher interface {
	FetchPages(ctx context.Context, req g2b.PageRequest, maxPages int) (*g2b.FetchResult, error)
}

// Query holds the caller-controlled inputs of one search.
type Query struct {
	Kind          model.Kind
	Keyword       string
	PageNo        int
	NumOfRows     int
	MaxPages      int
	FilterEnabled bool
	Category      string // award business-division code
}

// Normalize applies defaults and bounds to caller input. Unknown kinds
// become KindBid.
func (q Query) Normalize() Query {
	if !q.Kind.Valid() {
		q.Kind = model.KindBid
	}
	q.Keyword = NormalizeKeyword(q.Keyword)
	q.PageNo = g2b.ClampInt(q.PageNo, g2b.MinPage, g2b.MinPage, g2b.MaxPage)
	q.NumOfRows = g2b.ClampInt(q.NumOfRows, g2b.DefaultRows, g2b.MinRows, g2b.MaxRows)
	q.MaxPages = g2b.ClampInt(q.MaxPages, g2b.DefaultMaxPages, g2b.MinMaxPages, g2b.MaxMaxPages)
	return q
}

// Service runs searches against a Fetcher.
type Service struct {
	fetcher   Fetcher
	now       func() time.Time
	resultCap int
	logger    *slog.Logger
}

// Option configures optional Service settings.
type Option func(*Service)

// WithClock overrides the wall clock used for the date window and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithResultCap overrides DefaultResultCap.
func WithResultCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.resultCap = n
		}
	}
}

// NewService creates a Service backed by fetcher.
func NewService(fetcher Fetcher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher:   fetcher,
		now:       time.Now,
		resultCap: DefaultResultCap,
		logger:    logger.With("component", "procurement"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search fetches, merges, maps, filters and assembles one result. Upstream
// and configuration errors are returned unchanged (wrapped); a panic while
// shaping records is reported as ErrInternal.
func (s *Service) Search(ctx context.Context, q Query) (res *model.SearchResult, err error) {
	q = q.Normalize()
	now := s.now()
	window := g2b.ResolveWindow(now, q.Kind)

	fetched, err := s.fetcher.FetchPages(ctx, g2b.PageRequest{
		Kind:        q.Kind,
		Window:      window,
		PageNo:      q.PageNo,
		NumOfRows:   q.NumOfRows,
		ExtraFilter: q.Category,
	}, q.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", q.Kind, err)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("search panicked", "kind", q.Kind, "panic", r)
			res, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	items := g2b.MergeItems(fetched.Envelopes)
	records := make([]model.Record, 0, len(items))
	for _, it := range items {
		raw, ok := it.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, MapRecord(raw, q.Kind))
	}

	filtered := FilterRecords(records, q.Keyword, q.FilterEnabled)
	for i := range filtered {
		ResolveLinks(&filtered[i], q.Kind)
		filtered[i].Amount = FormatAmount(filtered[i].RawAmount)
	}

	set := Assemble(filtered, len(items), fetched.PagesFetched, window, s.resultCap)
	s.logger.Debug("search done",
		"kind", q.Kind,
		"scanned", set.TotalScanned,
		"matched", set.TotalMatched,
		"pages", set.PagesFetched,
	)

	return &model.SearchResult{
		Kind:    q.Kind,
		Keyword: q.Keyword,
		Meta: model.SearchMeta{
			TotalScanned:  set.TotalScanned,
			PagesFetched:  set.PagesFetched,
			RowsPerPage:   q.NumOfRows,
			StartPage:     q.PageNo,
			TotalMatched:  set.TotalMatched,
			ReturnedCount: len(set.Items),
			FilterEnabled: q.FilterEnabled,
			DateRange:     set.DateRangeLabel,
		},
		Items:       set.Items,
		UpstreamURL: fetched.FirstURL,
		GeneratedAt: now.UTC(),
	}, nil
}
