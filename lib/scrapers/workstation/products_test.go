package workstation

import (
	"testing"

	"jamberry-workstation/lib/currency"

	"github.com/stretchr/testify/require"
)

func TestParseProductSearch(t *testing.T) {
	data := []byte(`{"products": [
		{"sku": "NAS1001", "title": "Crimson Crush",
		 "price": "$15.00", "retailPrice": "$15.00",
		 "tags": ["wraps", "solid"], "inStock": true, "onSale": false,
		 "images": ["https://cdn.example.com/nas1001.jpg"]},
		{"sku": ["HST4004", "HST4004-ALT"], "title": "Hostess Bundle",
		 "price": "$65.00", "retailPrice": "$78.00",
		 "inStock": false, "onSale": true}
	]}`)

	products, err := ParseProductSearch(data)
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.Equal(t, "NAS1001", products[0].Sku)
	require.Equal(t, "Crimson Crush", products[0].Title)
	require.Equal(t, "15.00", products[0].Price.StringFixed(2))
	require.True(t, products[0].InStock)

	// a list-valued sku collapses to its first entry
	require.Equal(t, "HST4004", products[1].Sku)
	require.Equal(t, "78.00", products[1].RetailPrice.StringFixed(2))
	require.True(t, products[1].OnSale)
}

func TestParseProductSearchBadPrice(t *testing.T) {
	data := []byte(`{"products": [{"sku": "X", "title": "X", "price": "free"}]}`)
	_, err := ParseProductSearch(data)
	require.ErrorIs(t, err, currency.ErrMalformed)
}

func TestParseProductSearchBadPayload(t *testing.T) {
	_, err := ParseProductSearch([]byte(`<html>login page</html>`))
	require.ErrorIs(t, err, ErrExtraction)
}
