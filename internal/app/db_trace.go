package app

import (
	"regexp"
	"strings"
)

// Queries are collapsed to one line and capped before they land on a span,
// so a wide recruit insert cannot blow up trace storage.
const tracedQueryLimit = 512

var sqlWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	collapsed := sqlWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(collapsed) > tracedQueryLimit {
		return collapsed[:tracedQueryLimit] + "..."
	}
	return collapsed
}
