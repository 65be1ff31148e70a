package csvparse

import (
	"fmt"
	"time"
)

// dateLayouts are the date formats accepted across all input schemas,
// tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a calendar date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}
