package workstation

import (
	"fmt"
	"iter"
	"strings"

	"jamberry-workstation/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

// The two order listings use two different field locator strategies,
// both dictated by the portal's markup:
//
// Archive rows are plain tables, addressed by ordinal cell position
// because the header text is decorative. Live rows scatter fields as
// "Label:" text followed by a bare value node, so fields are located
// by label. Either table below can be swapped out when the portal
// changes layout without touching extractor logic.

// archiveOrderLayout maps record fields to cell ordinals on the
// archive table. Cells 7 and 8 (total, type) are redundant and
// intentionally unused.
var archiveOrderLayout = struct {
	id, customerName, shippingName, orderDate       int
	subtotal, shippingFee, tax, status, retailBonus int

	// a row must have at least this many cells
	width int
}{
	id:           0,
	customerName: 1,
	shippingName: 2,
	orderDate:    3,
	subtotal:     4,
	shippingFee:  5,
	tax:          6,
	status:       9,
	retailBonus:  10,
	width:        11,
}

// liveOrderLabels is the label set the current portal renders. The
// 2016-era layout labeled volume "PRV:" instead of "QV:"; that layout
// is deprecated and intentionally not merged in here.
var liveOrderLabels = struct {
	placedBy, contact, orderType, shippedTo    string
	subtotal, shipping, tax, total, qv, status string
	hostess, party, shippedOn                  string
}{
	placedBy:  "Placed By:",
	contact:   "Contact:",
	orderType: "Type:",
	shippedTo: "Shipped To:",
	subtotal:  "Subtotal:",
	shipping:  "Shipping:",
	tax:       "Tax:",
	total:     "Total:",
	qv:        "QV:",
	status:    "Status:",
	hostess:   "Hostess:",
	party:     "Party:",
	shippedOn: "Shipped On:",
}

const archiveDateLayout = "1/2/2006"

// labelValue locates a literal label's text node and returns the
// trimmed text immediately following it. The second return reports
// whether the label exists at all.
func labelValue(root *html.Node, label string) (string, bool) {
	want := strings.Trim(label, " \t\n\r")
	node := htmlutil.FindText(root, func(text string) bool {
		return strings.Trim(text, " \t\n\r") == want
	})
	if node == nil {
		return "", false
	}
	return htmlutil.AdjacentText(node), true
}

// labelValueContains is labelValue for labels embedded in longer text
// nodes (the portal prefixes hostess rows with decoration).
func labelValueContains(root *html.Node, label string) (string, bool) {
	node := htmlutil.FindText(root, func(text string) bool {
		return strings.Contains(text, label)
	})
	if node == nil {
		return "", false
	}
	return htmlutil.AdjacentText(node), true
}

func cellAnchor(cells *goquery.Selection, index int) (*goquery.Selection, error) {
	anchor := cells.Eq(index).Find("a").First()
	if anchor.Length() == 0 {
		return nil, fmt.Errorf("%w: no link in column %d", ErrExtraction, index)
	}
	return anchor, nil
}

// ExtractArchiveOrderRow maps one archive table row onto an Order
// using the fixed ordinal layout.
func ExtractArchiveOrderRow(row *goquery.Selection) (Order, error) {
	cells := row.Find("td")
	if cells.Length() < archiveOrderLayout.width {
		return Order{}, fmt.Errorf(
			"%w: archive row has %d columns, want at least %d",
			ErrExtraction, cells.Length(), archiveOrderLayout.width,
		)
	}

	var o Order

	idAnchor, err := cellAnchor(cells, archiveOrderLayout.id)
	if err != nil {
		return Order{}, err
	}
	o.Id = strings.Trim(idAnchor.Text(), " \t\n\r")
	o.DetailsUrl = idAnchor.AttrOr("href", "")

	nameAnchor, err := cellAnchor(cells, archiveOrderLayout.customerName)
	if err != nil {
		return Order{}, err
	}
	o.CustomerName = strings.Trim(nameAnchor.Text(), " \t\n\r")

	shippingAnchor, err := cellAnchor(cells, archiveOrderLayout.shippingName)
	if err != nil {
		return Order{}, err
	}
	o.ShippingName = strings.Trim(shippingAnchor.Text(), " \t\n\r")

	dateAnchor, err := cellAnchor(cells, archiveOrderLayout.orderDate)
	if err != nil {
		return Order{}, err
	}
	o.OrderDate, err = parseDate(dateAnchor.Text())
	if err != nil {
		return Order{}, err
	}
	if o.OrderDate.IsZero() {
		return Order{}, fmt.Errorf("%w: archive row has no order date", ErrExtraction)
	}
	o.OrderDate = o.OrderDate.Add(sourceClockOffset)

	o.Subtotal, err = parseMoney("subtotal", cells.Eq(archiveOrderLayout.subtotal).Text())
	if err != nil {
		return Order{}, err
	}
	o.ShippingFee, err = parseMoney("shipping", cells.Eq(archiveOrderLayout.shippingFee).Text())
	if err != nil {
		return Order{}, err
	}
	o.Tax, err = parseMoney("tax", cells.Eq(archiveOrderLayout.tax).Text())
	if err != nil {
		return Order{}, err
	}
	o.Status = strings.Trim(cells.Eq(archiveOrderLayout.status).Text(), " \t\n\r")
	o.RetailBonus, err = parseMoney("retail bonus", cells.Eq(archiveOrderLayout.retailBonus).Text())
	if err != nil {
		return Order{}, err
	}

	return o, nil
}

// ExtractOrderRow maps one live order row onto an Order using the
// label-adjacent locator. Only the id, order date and subtotal are
// structurally required; every other label may be absent on a given
// order, which leaves the field unset.
func ExtractOrderRow(row *goquery.Selection) (Order, error) {
	if len(row.Nodes) == 0 {
		return Order{}, fmt.Errorf("%w: empty order row selection", ErrExtraction)
	}
	root := row.Nodes[0]
	labels := liveOrderLabels

	var o Order
	cells := row.Find("td")

	idAnchor, err := cellAnchor(cells, 0)
	if err != nil {
		return Order{}, err
	}
	o.Id = strings.Trim(idAnchor.Text(), " \t\n\r")
	if o.Id == "" {
		return Order{}, fmt.Errorf("%w: order row has no id", ErrExtraction)
	}
	o.DetailsUrl = idAnchor.AttrOr("href", "")

	dateAnchor, err := cellAnchor(cells, 1)
	if err != nil {
		return Order{}, err
	}
	o.OrderDate, err = parseDate(dateAnchor.Text())
	if err != nil {
		return Order{}, err
	}
	if o.OrderDate.IsZero() {
		return Order{}, fmt.Errorf("%w: order row has no order date", ErrExtraction)
	}
	o.OrderDate = o.OrderDate.Add(sourceClockOffset)

	subtotal, ok := labelValue(root, labels.subtotal)
	if !ok {
		return Order{}, fmt.Errorf("%w: label %q absent", ErrExtraction, labels.subtotal)
	}
	o.Subtotal, err = parseMoney("subtotal", subtotal)
	if err != nil {
		return Order{}, err
	}

	// the primary customer label is blank on party and retail orders;
	// the name then lives on the row's next link after the id and
	// date links, optionally with a contact line.
	o.CustomerName, _ = labelValue(root, labels.placedBy)
	if o.CustomerName == "" {
		anchors := row.Find("a")
		if anchors.Length() < 3 {
			return Order{}, fmt.Errorf("%w: no customer link on order row", ErrExtraction)
		}
		customerAnchor := anchors.Eq(2)
		o.CustomerName = strings.Trim(customerAnchor.Text(), " \t\n\r")
		if href := customerAnchor.AttrOr("href", ""); href != "" {
			o.CustomerUrl = href
			segments := strings.Split(strings.TrimSuffix(href, "/"), "/")
			o.CustomerId = segments[len(segments)-1]
		}
		// absence of a contact is not an error
		o.CustomerContact, _ = labelValue(root, labels.contact)
	}

	o.Type, _ = labelValue(root, labels.orderType)
	o.ShippingName, _ = labelValue(root, labels.shippedTo)
	o.Status, _ = labelValue(root, labels.status)

	for _, money := range []struct {
		label string
		dst   *decimal.Decimal
	}{
		{labels.shipping, &o.ShippingFee},
		{labels.tax, &o.Tax},
		{labels.total, &o.Total},
		{labels.qv, &o.QV},
	} {
		value, ok := labelValue(root, money.label)
		if !ok || value == "" {
			continue
		}
		*money.dst, err = parseMoney(money.label, value)
		if err != nil {
			return Order{}, err
		}
	}

	if hostess, ok := labelValueContains(root, labels.hostess); ok {
		o.Hostess = hostess
	}
	if party, ok := labelValueContains(root, labels.party); ok {
		o.Party = party
	}
	if shippedOn, ok := labelValue(root, labels.shippedOn); ok && shippedOn != "" {
		o.ShipDate, err = parseDate(shippedOn)
		if err != nil {
			return Order{}, err
		}
	}

	return o, nil
}

func tableRows(doc *goquery.Document, tableId string) (*goquery.Selection, error) {
	table := doc.Find("table#" + tableId)
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: table #%s not found", ErrExtraction, tableId)
	}
	// the first row is the header
	return table.Find("tr").Slice(1, goquery.ToEnd), nil
}

// ParseOrders lazily extracts every order off the live orders page.
// Rows that fail extraction are yielded as errors carrying the row
// index; rows already produced are unaffected.
func ParseOrders(doc *goquery.Document) iter.Seq2[Order, error] {
	return func(yield func(Order, error) bool) {
		rows, err := tableRows(doc, "ctl00_contentMain_dgAllOrders")
		if err != nil {
			yield(Order{}, err)
			return
		}
		rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
			order, err := ExtractOrderRow(row)
			if err != nil {
				return yield(Order{}, fmt.Errorf("order row %d: %w", i, err))
			}
			return yield(order, nil)
		})
	}
}

// ParseArchiveOrders is ParseOrders for one page of the order archive.
func ParseArchiveOrders(doc *goquery.Document) iter.Seq2[Order, error] {
	return func(yield func(Order, error) bool) {
		rows, err := tableRows(doc, "ctl00_main_dgAllOrders")
		if err != nil {
			yield(Order{}, err)
			return
		}
		rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
			order, err := ExtractArchiveOrderRow(row)
			if err != nil {
				return yield(Order{}, fmt.Errorf("archive row %d: %w", i, err))
			}
			return yield(order, nil)
		})
	}
}

// archiveIsLastPage reads the server's last-page flag off an archive
// page. A missing flag is treated as the last page so pagination
// always terminates.
func archiveIsLastPage(doc *goquery.Document) bool {
	flag := doc.Find("input#ctl00_main_hdnLastPage")
	if flag.Length() == 0 {
		return true
	}
	return strings.EqualFold(flag.AttrOr("value", "true"), "true")
}
