package prediction

import (
	"bytes"
	"encoding/json"
	"strings"
)

// htmlEscaper replaces metacharacters in this order: & < > " '.
// strings.Replacer scans the input once, so an entity produced for one
// character is never re-escaped by a later rule.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML serializes v as JSON and escapes the result for insertion into
// HTML. Numbers and strings are handled uniformly: 0.05 becomes "0.05" and
// the string a<b becomes &quot;a&lt;b&quot;.
func EscapeHTML(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// The encoder's own < style escaping would hide the characters
	// from the replacer.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return htmlEscaper.Replace(strings.TrimSuffix(buf.String(), "\n")), nil
}
