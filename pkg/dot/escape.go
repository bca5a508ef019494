package dot

import (
	"fmt"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// reservedWords may not appear as bare identifiers in DOT output; they are
// always wrapped in quotes, case preserved.
var reservedWords = map[string]bool{
	"node":     true,
	"edge":     true,
	"graph":    true,
	"digraph":  true,
	"subgraph": true,
	"strict":   true,
}

// identRe matches tokens DOT accepts unquoted: identifiers and numerals.
var identRe = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z_0-9]*|-?(\.[0-9]+|[0-9]+(\.[0-9]*)?))$`)

// newlineReplacer normalizes every line-break sequence to the two-character
// DOT escape for a newline. \r\n must come first so it is not split.
var newlineReplacer = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`)

// htmlLabelKeys are the attribute keys whose values take the HTML-aware
// escape path in attribute lists.
var htmlLabelKeys = map[string]bool{
	"label":     true,
	"headlabel": true,
	"taillabel": true,
}

// Escape renders a value as a valid DOT token. Booleans become the literals
// true/false; reserved words are quoted verbatim; anything matching the
// identifier or numeral grammar is emitted bare; everything else is quoted
// with embedded quotes escaped and line breaks normalized to \n.
func Escape(v any) string {
	return escape(v, false)
}

// EscapeLabel is the HTML-aware variant of [Escape] used for label-bearing
// attribute values. A value containing an HTML closing tag ("</") or
// self-closing marker ("/>") is wrapped unescaped in angle brackets, the DOT
// syntax for HTML-like labels.
func EscapeLabel(v any) string {
	return escape(v, true)
}

func escape(v any, htmlAware bool) string {
	if b, ok := v.(bool); ok {
		if b {
			return "true"
		}
		return "false"
	}

	s := attrString(v)
	if reservedWords[strings.ToLower(s)] {
		return `"` + s + `"`
	}
	if htmlAware && (strings.Contains(s, "</") || strings.Contains(s, "/>")) {
		return "<" + s + ">"
	}
	if identRe.MatchString(s) {
		return s
	}
	return quote(s)
}

// quote wraps s in double quotes, escaping embedded quotes and normalizing
// line breaks.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = newlineReplacer.Replace(s)
	return `"` + s + `"`
}

// attrString converts an attribute value to its string form. Strings pass
// through; numbers and other values use their default formatting.
func attrString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// escapeAttrItems renders an attribute map as k=v items in insertion order.
// Values under label-bearing keys use the HTML-aware path and their keys stay
// bare; all other entries have both key and value escaped, since attribute
// names are not guaranteed to be valid identifiers either.
func escapeAttrItems(m *orderedmap.OrderedMap[string, any]) []string {
	items := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		if htmlLabelKeys[p.Key] {
			items = append(items, p.Key+"="+escape(p.Value, true))
			continue
		}
		items = append(items, escape(p.Key, false)+"="+escape(p.Value, false))
	}
	return items
}
