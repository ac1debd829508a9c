package g2b

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/me/narabid/pkg/model"
)

var (
	// ErrMissingCredential is returned when no upstream service key is configured.
	ErrMissingCredential = errors.New("g2b: service key not configured")
	// ErrInvalidKind is returned for a Kind value outside bid/award/contract.
	ErrInvalidKind = errors.New("g2b: invalid record kind")
)

// DefaultAwardCategory is the business-division code used for award
// queries when the caller supplies none (5 = services).
const DefaultAwardCategory = "5"

// Paging bounds applied to caller input.
const (
	MinRows         = 1
	MaxRows         = 1000
	DefaultRows     = 100
	MinPage         = 1
	MaxPage         = 9999
	MinMaxPages     = 1
	MaxMaxPages     = 10
	DefaultMaxPages = 3
)

// endpoints maps each kind to its operation path under the base URL.
var endpoints = map[model.Kind]string{
	model.KindBid:      "/ad/BidPublicInfoService/getBidPblancListInfoServc",
	model.KindAward:    "/as/ScsbidInfoService/getScsbidListSttusServc",
	model.KindContract: "/ao/CntrctInfoService/getCntrctInfoListServc",
}

// PageRequest describes one upstream page call.
type PageRequest struct {
	Kind        model.Kind
	Window      DateWindow
	PageNo      int
	NumOfRows   int
	ExtraFilter string // award only: business-division code
}

// Param is one query parameter. Order is preserved on the wire.
type Param struct {
	Key   string
	Value string
}

// ClampInt bounds v to [lo, hi], substituting def when v is zero.
func ClampInt(v, def, lo, hi int) int {
	if v == 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BuildQuery returns the ordered parameter set for one upstream call. The
// service key is returned as given; encoding happens in EncodeParams.
func BuildQuery(req PageRequest, serviceKey string) ([]Param, error) {
	if serviceKey == "" {
		return nil, ErrMissingCredential
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}

	params := []Param{
		{"ServiceKey", serviceKey},
		{"type", "json"},
		{"pageNo", strconv.Itoa(req.PageNo)},
		{"numOfRows", strconv.Itoa(req.NumOfRows)},
		{"inqryDiv", "1"},
	}

	switch req.Kind {
	case model.KindBid:
		params = append(params,
			Param{"inqryBgnDt", req.Window.FromDateTime()},
			Param{"inqryEndDt", req.Window.ToDateTime()},
		)
	case model.KindAward:
		category := req.ExtraFilter
		if category == "" {
			category = DefaultAwardCategory
		}
		params = append(params,
			Param{"opengBgnDt", req.Window.FromDateTime()},
			Param{"opengEndDt", req.Window.ToDateTime()},
			Param{"bsnsDivCd", category},
		)
	case model.KindContract:
		params = append(params,
			Param{"cntrctCnclsBgnDate", req.Window.FromDate()},
			Param{"cntrctCnclsEndDate", req.Window.ToDate()},
		)
	}
	return params, nil
}

// EncodeParams renders params as a raw query string. A service key that
// already contains a percent escape is passed through untouched so that
// operators may configure the pre-encoded key data.go.kr hands out.
func EncodeParams(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		if p.Key == "ServiceKey" {
			b.WriteString(encodeServiceKey(p.Value))
		} else {
			b.WriteString(url.QueryEscape(p.Value))
		}
	}
	return b.String()
}

func encodeServiceKey(key string) string {
	if strings.Contains(key, "%") {
		return key
	}
	return url.QueryEscape(key)
}

// BuildURL joins the kind endpoint under baseURL with the encoded query.
func BuildURL(baseURL string, req PageRequest, serviceKey string) (string, error) {
	params, err := BuildQuery(req, serviceKey)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + endpoints[req.Kind] + "?" + EncodeParams(params), nil
}

// RedactURL replaces the ServiceKey value in a request URL so it can be
// logged or returned to callers.
func RedactURL(raw string) string {
	base, query, ok := strings.Cut(raw, "?")
	if !ok {
		return raw
	}
	parts := strings.Split(query, "&")
	for i, p := range parts {
		if k, _, found := strings.Cut(p, "="); found && strings.EqualFold(k, "ServiceKey") {
			parts[i] = k + "=REDACTED"
		}
	}
	return base + "?" + strings.Join(parts, "&")
}
