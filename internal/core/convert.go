package core

// convert.go handles the messy reality of user-provided spreadsheet data:
// Excel formula prefixes, stray quotes, BOMs, and cells that arrive as
// numbers or booleans instead of strings.

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CleanCell removes common CSV artifacts from a cell or header value:
// surrounding whitespace, an Excel formula prefix (="value"), and stray
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	s = strings.TrimPrefix(s, "\ufeff")

	return strings.TrimSpace(s)
}

// RowFromValues converts a decoded JSON object into a Row, stringifying
// scalar cell values the way a spreadsheet upload would present them.
// Null cells become empty strings; float-typed integers lose the ".0".
func RowFromValues(values map[string]any) Row {
	row := make(Row, len(values))
	for k, v := range values {
		row[k] = stringifyCell(v)
	}
	return row
}

func stringifyCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// SQLTimestamp formats t in the "YYYY-MM-DD HH:MM:SS" shape the remote
// service stores for consent timestamps.
func SQLTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// SQLNow is SQLTimestamp of the current local time.
func SQLNow() string {
	return SQLTimestamp(time.Now())
}
