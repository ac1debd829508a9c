package procurement

import (
	"github.com/me/narabid/internal/g2b"
	"github.com/me/narabid/pkg/model"
)

// DefaultResultCap bounds the number of records returned per search.
const DefaultResultCap = 50

// Assemble caps filtered to limit and computes the summary counts.
// scanned is the merged raw item count before filtering.
func Assemble(filtered []model.Record, scanned, pages int, window g2b.DateWindow, limit int) model.ResultSet {
	if limit <= 0 {
		limit = DefaultResultCap
	}
	items := filtered
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []model.Record{}
	}
	return model.ResultSet{
		Items:          items,
		TotalScanned:   scanned,
		TotalMatched:   len(filtered),
		PagesFetched:   pages,
		DateRangeLabel: window.Label(),
	}
}
