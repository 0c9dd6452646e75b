package workstation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRankTitle(t *testing.T) {
	title, err := parseRankTitle("03 - Senior Consultant")
	require.NoError(t, err)
	require.Equal(t, RankTitle{Code: 3, Name: "Senior Consultant"}, title)

	title, err = parseRankTitle("  11 - Elite Executive  ")
	require.NoError(t, err)
	require.Equal(t, RankTitle{Code: 11, Name: "Elite Executive"}, title)

	// an empty field is an unknown title, not an error
	title, err = parseRankTitle("")
	require.NoError(t, err)
	require.Equal(t, RankTitle{}, title)

	_, err = parseRankTitle("03")
	require.ErrorIs(t, err, ErrMalformedRow)

	_, err = parseRankTitle("xx - Mystery Rank")
	require.ErrorIs(t, err, ErrMalformedRow)
}

func TestConsultantAddress(t *testing.T) {
	c := Consultant{
		FirstName:    "Ima",
		LastName:     "Consultant",
		AddressLine1: "123 Nowhere St.",
		City:         "Somewhere",
		State:        "NV",
		Zip:          "12345",
	}
	require.Equal(t, "Ima Consultant", c.FullName())
	require.Equal(t, "123 Nowhere St.\nSomewhere, NV 12345", c.Address())
}
