package database

import (
	"strconv"
	"strings"
)

// Rebind rewrites '?' placeholders into PostgreSQL's numbered '$n' form.
// Question marks inside single-quoted literals are left untouched.
// Repositories write '?' queries once and the postgres connection rebinds them.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
