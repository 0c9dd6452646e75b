package workstation

import (
	"fmt"
	"strings"
	"time"
)

// layouts the portal has been observed to emit, tried in order
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"1/2/2006",
	"2006-01-02",
}

// source timestamps are stored on the portal side with a fixed
// timezone quirk; adding six hours normalizes them.
const sourceClockOffset = 6 * time.Hour

// parseDate tolerantly parses the portal's date strings. An empty
// string means "unknown" and yields the zero time without error.
func parseDate(text string) (time.Time, error) {
	text = strings.Trim(text, " \t\n\r")
	if text == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrMalformedRow, text)
}
