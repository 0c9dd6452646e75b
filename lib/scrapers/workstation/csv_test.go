package workstation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVHeaderResolve(t *testing.T) {
	h := newCSVHeader([]string{"Customer Id", "ZIP ", "First Purchase Date"})

	// exact name
	i, ok := h.resolve("Customer Id")
	require.True(t, ok)
	require.Equal(t, 0, i)

	// whitespace and casing drift resolve by normalized text
	i, ok = h.resolve("ZIP")
	require.True(t, ok)
	require.Equal(t, 1, i)

	// renamed columns resolve by similarity
	i, ok = h.resolve("First Purchase")
	require.True(t, ok)
	require.Equal(t, 2, i)

	_, ok = h.resolve("Trip Points")
	require.False(t, ok)
}

func TestCSVRowAccessors(t *testing.T) {
	row := csvRow{
		header: newCSVHeader([]string{"Id", "Count", "Volume", "Note"}),
		fields: []string{" 42 ", "1,234", "($5.00)", ""},
	}

	id, err := row.req("Id")
	require.NoError(t, err)
	require.Equal(t, "42", id)

	count, err := row.optInt("Count")
	require.NoError(t, err)
	require.Equal(t, 1234, count)

	volume, err := row.optMoney("Volume")
	require.NoError(t, err)
	require.Equal(t, "-5.00", volume.StringFixed(2))

	_, err = row.req("Note")
	require.ErrorIs(t, err, ErrMalformedRow)

	// a short row never panics on a high column index
	short := csvRow{header: row.header, fields: []string{"42"}}
	require.Empty(t, short.optText("Note"))
}
