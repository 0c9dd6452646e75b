package workstation

import (
	"bytes"
	_ "embed"
	"iter"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/orders.html
var ordersPage []byte

//go:embed testdata/archive_orders.html
var archiveOrdersPage []byte

func loadDoc(t *testing.T, data []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	return doc
}

func collect[T any](t *testing.T, seq iter.Seq2[T, error]) []T {
	t.Helper()
	var out []T
	for v, err := range seq {
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestParseOrders(t *testing.T) {
	doc := loadDoc(t, ordersPage)
	orders := collect(t, ParseOrders(doc))
	require.Len(t, orders, 2)

	retail := orders[0]
	require.Equal(t, "12345678", retail.Id)
	require.Equal(t, "OrderDetails.aspx?id=12345678", retail.DetailsUrl)
	require.Equal(t, "Foo Bar", retail.CustomerName)
	require.Empty(t, retail.CustomerId)
	require.Equal(t, "Foo Bar", retail.ShippingName)
	require.Equal(t, "Retail", retail.Type)
	require.Equal(t, "Shipped", retail.Status)
	require.Equal(t, time.Date(2017, 10, 1, 6, 0, 0, 0, time.UTC), retail.OrderDate)
	require.Equal(t, time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC), retail.ShipDate)
	require.Equal(t, "15.00", retail.Subtotal.StringFixed(2))
	require.Equal(t, "0.00", retail.ShippingFee.StringFixed(2))
	require.Equal(t, "1.09", retail.Tax.StringFixed(2))
	require.Equal(t, "16.09", retail.Total.StringFixed(2))
	require.Equal(t, "15.00", retail.QV.StringFixed(2))
	require.Equal(t, "Foo Manchu", retail.Hostess)
	require.Equal(t, "What a Party!", retail.Party)

	// a blank primary customer label falls back to the row's
	// customer link
	party := orders[1]
	require.Equal(t, "87654321", party.Id)
	require.Equal(t, "Jane Doe", party.CustomerName)
	require.Equal(t, "4242", party.CustomerId)
	require.Equal(t, "/us/en/associate/customers/4242", party.CustomerUrl)
	require.Equal(t, "jane@example.com", party.CustomerContact)
	require.Equal(t, "Party", party.Type)
	require.Equal(t, "25.00", party.Subtotal.StringFixed(2))
	require.Equal(t, "0.00", party.ShippingFee.StringFixed(2))
	require.Equal(t, "26.81", party.Total.StringFixed(2))
	require.True(t, party.ShipDate.IsZero())
}

func TestParseOrdersIsIdempotent(t *testing.T) {
	doc := loadDoc(t, ordersPage)
	first := collect(t, ParseOrders(doc))
	second := collect(t, ParseOrders(doc))
	require.Empty(t, cmp.Diff(first, second))
}

func TestParseArchiveOrders(t *testing.T) {
	doc := loadDoc(t, archiveOrdersPage)
	orders := collect(t, ParseArchiveOrders(doc))
	require.Len(t, orders, 2)

	o := orders[0]
	require.Equal(t, "55512345", o.Id)
	require.Equal(t, "OrderDetails.aspx?id=55512345", o.DetailsUrl)
	require.Equal(t, "Alice Smith", o.CustomerName)
	require.Equal(t, "Alice Smith", o.ShippingName)
	require.Equal(t, time.Date(2017, 10, 1, 6, 0, 0, 0, time.UTC), o.OrderDate)
	require.Equal(t, "15.00", o.Subtotal.StringFixed(2))
	require.Equal(t, "4.99", o.ShippingFee.StringFixed(2))
	require.Equal(t, "1.09", o.Tax.StringFixed(2))
	require.Equal(t, "Shipped", o.Status)
	require.Equal(t, "-0.50", o.RetailBonus.StringFixed(2))

	require.Equal(t, "1.20", orders[1].RetailBonus.StringFixed(2))
}

func TestArchiveIsLastPage(t *testing.T) {
	doc := loadDoc(t, archiveOrdersPage)
	require.True(t, archiveIsLastPage(doc))

	doc = loadDoc(t, []byte(`<html><body>
		<input type="hidden" id="ctl00_main_hdnLastPage" value="False" />
	</body></html>`))
	require.False(t, archiveIsLastPage(doc))

	// a page without the flag must terminate pagination
	doc = loadDoc(t, []byte(`<html><body></body></html>`))
	require.True(t, archiveIsLastPage(doc))
}

func TestExtractOrderRowRejectsMissingSubtotal(t *testing.T) {
	doc := loadDoc(t, []byte(`<html><body><table><tr>
		<td><a href="OrderDetails.aspx?id=1">1</a></td>
		<td><a href="OrderDetails.aspx?id=1">Oct 1, 2017</a></td>
		<td><span>Placed By:</span> Foo Bar</td>
	</tr></table></body></html>`))
	_, err := ExtractOrderRow(doc.Find("tr").First())
	require.ErrorIs(t, err, ErrExtraction)
}
