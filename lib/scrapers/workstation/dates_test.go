package workstation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	for input, want := range map[string]time.Time{
		"Oct 1, 2017":     time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC),
		"October 1, 2017": time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC),
		"10/1/2017":       time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC),
		"2017-10-01":      time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC),
		" Oct 1, 2017 ":   time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC),
		"":                {},
	} {
		got, err := parseDate(input)
		require.NoError(t, err, input)
		require.True(t, want.Equal(got), input)
	}

	_, err := parseDate("someday")
	require.ErrorIs(t, err, ErrMalformedRow)
}
