package model

import "time"

// Kind selects which procurement record set is queried.
type Kind string

const (
	KindBid      Kind = "bid"      // announcement notices
	KindAward    Kind = "award"    // award (opening) results
	KindContract Kind = "contract" // signed contracts
)

// AllKinds lists the recognized kinds in display order.
var AllKinds = []Kind{KindBid, KindAward, KindContract}

// ParseKind normalizes caller input. Unknown or empty values fall back to
// KindBid rather than failing the request.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindBid, KindAward, KindContract:
		return Kind(s)
	default:
		return KindBid
	}
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBid, KindAward, KindContract:
		return true
	}
	return false
}

// LookbackDays is the trailing span queried for a kind. The upstream rejects
// windows of 7 days (award) and 30 days (bid, contract) or more.
func (k Kind) LookbackDays() int {
	if k == KindAward {
		return 6
	}
	return 29
}

// Unspecified marks title/organization values the upstream did not supply.
const Unspecified = "미지정"

// Record is the canonical, kind-independent view of one upstream item.
type Record struct {
	Title        string `json:"title"`
	Date         string `json:"date"`
	Time         string `json:"time,omitempty"`
	Organization string `json:"organization"`
	Amount       string `json:"amount"`
	Status       string `json:"status,omitempty"`
	Winner       string `json:"winner,omitempty"`
	Period       string `json:"period,omitempty"`
	DetailURL    string `json:"detailUrl"`
	FallbackURL  string `json:"fallbackUrl"`

	// Bid notice identifiers, kept only to build the deep link.
	NoticeNo  string `json:"-"`
	NoticeOrd string `json:"-"`

	// Unformatted amount as found upstream.
	RawAmount any `json:"-"`
}

// ResultSet is the capped, counted output of one search.
type ResultSet struct {
	Items          []Record
	TotalScanned   int
	TotalMatched   int
	PagesFetched   int
	DateRangeLabel string
}

// SearchMeta describes how much upstream data was scanned and matched.
type SearchMeta struct {
	TotalScanned  int    `json:"totalScanned"`
	PagesFetched  int    `json:"pagesFetched"`
	RowsPerPage   int    `json:"rowsPerPage"`
	StartPage     int    `json:"startPage"`
	TotalMatched  int    `json:"totalMatched"`
	ReturnedCount int    `json:"returnedCount"`
	FilterEnabled bool   `json:"filterEnabled"`
	DateRange     string `json:"dateRange"`
}

// SearchResult is the payload returned to callers of a search.
type SearchResult struct {
	Kind        Kind       `json:"kind"`
	Keyword     string     `json:"keyword"`
	Meta        SearchMeta `json:"meta"`
	Items       []Record   `json:"items"`
	UpstreamURL string     `json:"upstreamUrl"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// FetchLogEntry records one upstream call. Only call metadata is kept.
type FetchLogEntry struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	PageNo     int       `json:"page_no"`
	URL        string    `json:"url"`
	Status     int       `json:"status"`
	Items      int       `json:"items"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
