package logging

import (
	"log/slog"
	"strings"
)

const credentialParam = "servicekey="

// redactAttr masks the value of any ServiceKey query parameter that reaches
// a log line, whether as a string attribute or inside an error message.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); containsCredential(s) {
			a.Value = slog.StringValue(Redact(s))
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok && containsCredential(err.Error()) {
			a.Value = slog.StringValue(Redact(err.Error()))
		}
	}
	return a
}

func containsCredential(s string) bool {
	return indexCredential(s, 0) >= 0
}

// indexCredential returns the byte offset in s of the first ASCII
// case-insensitive match of credentialParam at or after from, or -1.
func indexCredential(s string, from int) int {
	n := len(credentialParam)
	for i := from; i+n <= len(s); i++ {
		match := true
		for k := 0; k < n; k++ {
			c := s[i+k]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != credentialParam[k] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Redact replaces every ServiceKey=<value> occurrence in s with
// ServiceKey=REDACTED. The value ends at '&', whitespace or a quote.
func Redact(s string) string {
	var b strings.Builder
	i := 0
	for {
		j := indexCredential(s, i)
		if j < 0 {
			b.WriteString(s[i:])
			return b.String()
		}
		start := j + len(credentialParam)
		b.WriteString(s[i:start])
		b.WriteString("REDACTED")
		end := start
		for end < len(s) && !strings.ContainsRune("& \t\n\"'", rune(s[end])) {
			end++
		}
		i = end
	}
}
