package procurement

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/me/narabid/pkg/model"
)

// fieldChains lists, per logical field, the upstream keys to try in order.
// The upstream renames fields between data-set variants, so the first
// non-empty key wins.
type fieldChains struct {
	Title        []string
	Date         []string
	Time         []string
	Organization []string
	Amount       []string
	Status       []string
	Winner       []string
	Period       []string
	NoticeNo     []string
	NoticeOrd    []string
}

var chainsByKind = map[model.Kind]fieldChains{
	model.KindBid: {
		Title:        []string{"bidNtceNm", "ntceNm", "bidNm"},
		Date:         []string{"bidNtceDt", "bidNtceDate", "rgstDt"},
		Time:         []string{"bidNtceBgn"},
		Organization: []string{"ntceInsttNm", "dminsttNm", "orderInsttNm"},
		Amount:       []string{"presmptPrce", "asignBdgtAmt", "bdgtAmt"},
		Status:       []string{"ntceKindNm", "bidNtceSttusNm"},
		Period:       []string{"bidClseDt"},
		NoticeNo:     []string{"bidNtceNo"},
		NoticeOrd:    []string{"bidNtceOrd"},
	},
	model.KindAward: {
		Title:        []string{"bidNtceNm", "ntceNm"},
		Date:         []string{"rlOpengDt", "opengDt", "fnlSucsfDate"},
		Organization: []string{"dminsttNm", "ntceInsttNm"},
		Amount:       []string{"sucsfbidAmt", "presmptPrce"},
		Status:       []string{"prgsDivNm", "opengRsltDivNm"},
		Winner:       []string{"bidwinnrNm", "sucsfbidCorpNm"},
	},
	model.KindContract: {
		Title:        []string{"cntrctNm", "bidNtceNm"},
		Date:         []string{"cntrctCnclsDate", "cntrctDate", "rgstDt"},
		Organization: []string{"cntrctInsttNm", "dminsttNm", "dmndInsttNm"},
		Amount:       []string{"thtmCntrctAmt", "totCntrctAmt", "cntrctAmt"},
		Status:       []string{"cntrctMthdNm", "cntrctCnclsMthdNm"},
		Winner:       []string{"rprsntCorpNm", "corpList"},
		Period:       []string{"cntrctPrd", "ttalCntrctPrd"},
	},
}

// MapRecord converts one raw upstream item into a Record. Links and the
// amount display are filled in later. Absent fields degrade to defaults.
func MapRecord(raw map[string]any, kind model.Kind) model.Record {
	c, ok := chainsByKind[kind]
	if !ok {
		c = chainsByKind[model.KindBid]
	}

	rec := model.Record{
		Title:        cleanText(firstString(raw, c.Title)),
		Organization: cleanText(firstString(raw, c.Organization)),
		Status:       cleanText(firstString(raw, c.Status)),
		Winner:       cleanText(firstString(raw, c.Winner)),
		Period:       cleanText(firstString(raw, c.Period)),
		NoticeNo:     firstString(raw, c.NoticeNo),
		NoticeOrd:    firstString(raw, c.NoticeOrd),
		RawAmount:    firstValue(raw, c.Amount),
	}
	if rec.Title == "" {
		rec.Title = model.Unspecified
	}
	if rec.Organization == "" {
		rec.Organization = model.Unspecified
	}

	rec.Date, rec.Time = splitDateTime(firstString(raw, c.Date))
	if rec.Time == "" {
		rec.Time = normalizeClock(firstString(raw, c.Time))
	}
	return rec
}

// firstValue returns the first value in chain that renders non-empty.
func firstValue(raw map[string]any, chain []string) any {
	for _, key := range chain {
		if v, ok := raw[key]; ok && asString(v) != "" {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]any, chain []string) string {
	return asString(firstValue(raw, chain))
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// splitDateTime separates "2024-01-02 10:30:00" into date and HH:MM and
// expands compact "20240102" dates.
func splitDateTime(s string) (date, clock string) {
	date, rest, _ := strings.Cut(strings.TrimSpace(s), " ")
	if len(date) == 8 && isDigits(date) {
		date = date[:4] + "-" + date[4:6] + "-" + date[6:]
	}
	return date, normalizeClock(rest)
}

// normalizeClock reduces "10:30:00" or "1030" to "10:30".
func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case len(s) >= 5 && s[2] == ':':
		return s[:5]
	case len(s) == 4 && isDigits(s):
		return s[:2] + ":" + s[2:]
	default:
		return s
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
