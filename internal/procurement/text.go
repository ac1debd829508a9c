package procurement

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes every tag. Policies are safe for concurrent use once
// built.
var strictPolicy = bluemonday.StrictPolicy()

// cleanText strips markup and entities the upstream sometimes embeds in
// names, then collapses whitespace.
func cleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = html.UnescapeString(strictPolicy.Sanitize(s))
	}
	return strings.Join(strings.Fields(s), " ")
}
