package procurement

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatAmount renders a loosely typed monetary value as a comma-grouped
// integer ("1,234,000"). Currency symbols, separators and signs are dropped;
// zero or unparseable input yields "".
func FormatAmount(v any) string {
	var f float64
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return FormatAmount(t.String())
		}
		f = parsed
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			f = parsed
			break
		}
		clean := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, t)
		parsed, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return ""
		}
		f = parsed
	default:
		return ""
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	n := math.Round(math.Abs(f))
	if n == 0 || n >= math.MaxInt64 {
		return ""
	}
	return humanize.Comma(int64(n))
}
