package workstation

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/order_detail.html
var orderDetailPage []byte

func TestExtractLineItems(t *testing.T) {
	doc := loadDoc(t, orderDetailPage)
	items, err := ExtractLineItems(doc)
	require.NoError(t, err)
	require.Len(t, items, 4)

	require.Equal(t, "NAS1001", items[0].Sku)
	require.Equal(t, "Crimson Crush", items[0].Name)
	require.Equal(t, "$15.00", items[0].Price)
	require.Equal(t, 2, items[0].Quantity)
	require.Equal(t, "30.00", items[0].Total.StringFixed(2))

	// the total cell's annotation line is not part of the amount
	require.Equal(t, "Hostess Bundle", items[3].Name)
	require.Equal(t, 1, items[3].Quantity)
	require.Equal(t, "65.00", items[3].Total.StringFixed(2))
}

func TestExtractLineItemsRejectsBadQuantity(t *testing.T) {
	doc := loadDoc(t, []byte(`<html><body><table id="ctl00_main_dgMain">
		<tr><th>Sku</th><th>Item</th><th>Price</th><th>Qty</th><th>Total</th></tr>
		<tr><td>NAS1001</td><td>Crimson Crush</td><td>$15.00</td><td>two</td><td>$30.00</td></tr>
	</table></body></html>`))
	_, err := ExtractLineItems(doc)
	require.ErrorIs(t, err, ErrMalformedRow)
}

func TestExtractShippingAddress(t *testing.T) {
	doc := loadDoc(t, orderDetailPage)
	address, err := ExtractShippingAddress(doc)
	require.NoError(t, err)
	require.Equal(t, "123 Somewhere St\nSomewhere, CA 12345-6789", address)
}

func TestExtractShippingAddressMissingLabel(t *testing.T) {
	doc := loadDoc(t, []byte(`<html><body><p>nothing here</p></body></html>`))
	_, err := ExtractShippingAddress(doc)
	require.ErrorIs(t, err, ErrExtraction)
}
