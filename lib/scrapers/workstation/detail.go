package workstation

import (
	"fmt"
	"strconv"
	"strings"

	"jamberry-workstation/lib/htmlutil"
	"jamberry-workstation/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// detail page line item cells, by ordinal position
const (
	lineItemSku = iota
	lineItemName
	lineItemPrice
	lineItemQuantity
	lineItemTotal
	lineItemWidth
)

// ExtractLineItems reads every line item row off an order detail
// page. The total cell can carry a second annotation line which is
// discarded; only its first line is the amount.
func ExtractLineItems(doc *goquery.Document) ([]OrderLineItem, error) {
	table := doc.Find("table#ctl00_main_dgMain")
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: line item table not found", ErrExtraction)
	}

	var items []OrderLineItem
	var rowErr error
	table.Find("tr").Slice(1, goquery.ToEnd).EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < lineItemWidth {
			rowErr = fmt.Errorf(
				"%w: line item row %d has %d columns, want %d",
				ErrExtraction, i, cells.Length(), lineItemWidth,
			)
			return false
		}

		quantityText := strings.Trim(cells.Eq(lineItemQuantity).Text(), " \t\n\r")
		quantity, err := strconv.Atoi(quantityText)
		if err != nil {
			rowErr = fmt.Errorf(
				"%w: line item row %d: non-integer quantity %q",
				ErrMalformedRow, i, quantityText,
			)
			return false
		}

		total, err := parseMoney("line total", textutil.FirstLine(cells.Eq(lineItemTotal).Text()))
		if err != nil {
			rowErr = fmt.Errorf("line item row %d: %w", i, err)
			return false
		}

		items = append(items, OrderLineItem{
			Sku:      strings.Trim(cells.Eq(lineItemSku).Text(), " \t\n\r"),
			Name:     strings.Trim(cells.Eq(lineItemName).Text(), " \t\n\r"),
			Price:    strings.Trim(cells.Eq(lineItemPrice).Text(), " \t\n\r"),
			Quantity: quantity,
			Total:    total,
		})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return items, nil
}

// ExtractShippingAddress reads the shipping address block off an
// order detail page: the node labeled "Address" is followed by a
// structural sibling holding one text line per address line, joined
// here with newlines in document order.
func ExtractShippingAddress(doc *goquery.Document) (string, error) {
	if len(doc.Nodes) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrExtraction)
	}

	label := htmlutil.FindText(doc.Nodes[0], func(text string) bool {
		return strings.Contains(text, "Address")
	})
	if label == nil {
		return "", fmt.Errorf("%w: address label not found", ErrExtraction)
	}

	block := htmlutil.NextElementSibling(label)
	if block == nil {
		return "", fmt.Errorf("%w: no address block after label", ErrExtraction)
	}

	return strings.Join(htmlutil.StrippedLines(block), "\n"), nil
}
