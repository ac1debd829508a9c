package procurement

import (
	"strings"

	"github.com/me/narabid/pkg/model"
	"golang.org/x/text/cases"
)

// MaxKeywordRunes caps the keyword length used for matching.
const MaxKeywordRunes = 60

// NormalizeKeyword trims q and truncates it to MaxKeywordRunes runes.
func NormalizeKeyword(q string) string {
	q = strings.TrimSpace(q)
	if r := []rune(q); len(r) > MaxKeywordRunes {
		q = strings.TrimSpace(string(r[:MaxKeywordRunes]))
	}
	return q
}

// FilterRecords keeps records whose title or organization contains keyword,
// ignoring case. A disabled filter or an empty keyword passes everything.
func FilterRecords(records []model.Record, keyword string, enabled bool) []model.Record {
	if !enabled || keyword == "" {
		return records
	}
	fold := cases.Fold()
	needle := fold.String(keyword)

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(fold.String(r.Title), needle) ||
			strings.Contains(fold.String(r.Organization), needle) {
			out = append(out, r)
		}
	}
	return out
}
