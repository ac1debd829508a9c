package procurement

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/me/narabid/pkg/model"
)

// Defaults fill in paging inputs the caller leaves out.
type Defaults struct {
	NumOfRows int
	MaxPages  int
}

// ParseParams reads search inputs from URL query values. Unknown kinds fall
// back to bid and out-of-range numbers are clamped later by Normalize; only
// non-integer numbers are reported.
func ParseParams(v url.Values, d Defaults) (Query, []model.FieldError) {
	var errs []model.FieldError
	intParam := func(name string, def int) int {
		raw := strings.TrimSpace(v.Get(name))
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, model.FieldError{Field: name, Message: "must be an integer"})
			return def
		}
		return n
	}

	category := v.Get("bsnsDivCd")
	if category == "" {
		category = v.Get("category")
	}

	q := Query{
		Kind:          model.ParseKind(strings.ToLower(strings.TrimSpace(v.Get("kind")))),
		Keyword:       v.Get("q"),
		PageNo:        intParam("pageNo", 1),
		NumOfRows:     intParam("numOfRows", d.NumOfRows),
		MaxPages:      intParam("maxPages", d.MaxPages),
		FilterEnabled: ParseFilterFlag(v.Get("filter")),
		Category:      strings.TrimSpace(category),
	}
	return q, errs
}

// ParseFilterFlag reports whether keyword filtering is on. Filtering is on
// unless the value is one of 0, false, off, no.
func ParseFilterFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false", "off", "no":
		return false
	default:
		return true
	}
}
