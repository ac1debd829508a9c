package procurement

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/me/narabid/pkg/model"
)

const (
	detailPageURL = "https://www.g2b.go.kr:8081/ep/invitation/publish/bidInfoDtl.do"
	searchPageURL = "https://www.g2b.go.kr:8101/ep/tbid/tbidList.do"
)

// SearchLink returns the listing-search URL for a title.
func SearchLink(title string) string {
	if title == model.Unspecified {
		title = ""
	}
	v := url.Values{}
	v.Set("searchType", "1")
	v.Set("bidNm", title)
	return searchPageURL + "?" + v.Encode()
}

// DetailLink returns the notice detail URL. The ordinal is rendered as two
// digits and defaults to "00".
func DetailLink(noticeNo, noticeOrd string) string {
	return detailPageURL + "?bidno=" + url.QueryEscape(noticeNo) + "&bidseq=" + sequence(noticeOrd)
}

func sequence(ord string) string {
	n, err := strconv.Atoi(strings.TrimSpace(ord))
	if err != nil || n < 0 {
		return "00"
	}
	return fmt.Sprintf("%02d", n)
}

// ResolveLinks sets DetailURL and FallbackURL on rec. Only bid records with
// a notice number get a deep link; the search link is always the fallback.
func ResolveLinks(rec *model.Record, kind model.Kind) {
	rec.FallbackURL = SearchLink(rec.Title)
	if kind == model.KindBid && rec.NoticeNo != "" {
		rec.DetailURL = DetailLink(rec.NoticeNo, rec.NoticeOrd)
		return
	}
	rec.DetailURL = rec.FallbackURL
}
