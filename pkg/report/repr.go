package report

import (
	"sort"
	"strings"
)

// quote renders s the way the reports have always printed names: single
// quotes unless the name itself contains one and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func join(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = quote(s)
	}
	return strings.Join(parts, ", ")
}

// formatList renders names as ['A', 'B'], keeping their order.
func formatList(names []string) string {
	return "[" + join(names) + "]"
}

// formatSet renders the members of set as {'A', 'B'} in sorted order.
func formatSet(set map[string]struct{}) string {
	if len(set) == 0 {
		return "{}"
	}
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return "{" + join(members) + "}"
}
