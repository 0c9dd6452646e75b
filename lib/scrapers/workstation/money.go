package workstation

import (
	"fmt"

	"jamberry-workstation/lib/currency"

	"github.com/shopspring/decimal"
)

func parseMoney(field, text string) (decimal.Decimal, error) {
	d, err := currency.Parse(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %q: %w", field, err)
	}
	return d, nil
}
