package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
)

var datetimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse a user-supplied date-time. Exact layouts are tried first (the
// iCalendar UTC form, RFC 3339, "2006-01-02 15:04" and "2006-01-02", the last
// two in loc), then natural language such as "tomorrow 10am" relative to now.
func ParseDatetime(parser *when.Parser, text string, now time.Time, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("ParseDatetime: empty input")
	}
	if t, err := time.Parse("20060102T150405Z", text); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}

	result, err := parser.Parse(text, now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDatetime: %w", err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("ParseDatetime: can't understand %q", text)
	}
	return result.Time, nil
}
