package procurement

import (
	"strings"
	"testing"

	"github.com/me/narabid/pkg/model"
	"github.com/stretchr/testify/assert"
)

func recs(titles ...string) []model.Record {
	out := make([]model.Record, 0, len(titles))
	for _, t := range titles {
		out = append(out, model.Record{Title: t, Organization: model.Unspecified})
	}
	return out
}

func TestFilterRecords_CaseInsensitiveSubstring(t *testing.T) {
	in := recs("AI 시스템 구축")
	assert.Len(t, FilterRecords(in, "ai", true), 1)
	assert.Len(t, FilterRecords(in, "Ai", true), 1)
	assert.Len(t, FilterRecords(in, "시스템", true), 1)
	assert.Empty(t, FilterRecords(in, "ai구축2", true))
}

func TestFilterRecords_MatchesOrganization(t *testing.T) {
	in := []model.Record{
		{Title: "청사 보수", Organization: "Korea Expressway Corp"},
		{Title: "장비 구매", Organization: "국방부"},
	}
	got := FilterRecords(in, "EXPRESSWAY", true)
	assert.Len(t, got, 1)
	assert.Equal(t, "청사 보수", got[0].Title)
}

func TestFilterRecords_DisabledOrEmpty(t *testing.T) {
	in := recs("a", "b", "c")
	assert.Len(t, FilterRecords(in, "zzz", false), 3)
	assert.Len(t, FilterRecords(in, "", true), 3)
}

func TestNormalizeKeyword(t *testing.T) {
	assert.Equal(t, "도로", NormalizeKeyword("  도로 \t"))
	long := strings.Repeat("가", 100)
	got := NormalizeKeyword(long)
	assert.Equal(t, MaxKeywordRunes, len([]rune(got)))
}
