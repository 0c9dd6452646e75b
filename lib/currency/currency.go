// Package currency converts the money strings the workstation portal
// renders ("$1,342.63 USD", "($8.00)", "-$8.00") into exact decimals.
//
// Money parsed here gets summed into financial totals downstream, so
// values are held as decimal.Decimal, never as floats.
package currency

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrMalformed = errors.New("malformed currency")

// the portal renders amounts with cents always present and thousands
// separated by commas. order matters: the negative forms would also
// partially match the plain pattern.
var (
	parenthesized = regexp.MustCompile(`^\(\$?([0-9][0-9,]*\.[0-9]{2})\)(?: ?[A-Z]{3})?$`)
	leadingMinus  = regexp.MustCompile(`^-\$?([0-9][0-9,]*\.[0-9]{2})(?: ?[A-Z]{3})?$`)
	plain         = regexp.MustCompile(`^\$?([0-9][0-9,]*\.[0-9]{2})(?: ?[A-Z]{3})?$`)
)

// Parse converts a portal money string into an exact decimal. The
// accounting convention of parenthesizing negative amounts is
// honored, as is a plain leading minus. A string matching none of
// the known forms is a hard failure, never a silent zero.
func Parse(text string) (decimal.Decimal, error) {
	trimmed := strings.Trim(text, " \t\n\r")

	for _, form := range []struct {
		pattern  *regexp.Regexp
		negative bool
	}{
		{parenthesized, true},
		{leadingMinus, true},
		{plain, false},
	} {
		groups := form.pattern.FindStringSubmatch(trimmed)
		if groups == nil {
			continue
		}

		digits := strings.ReplaceAll(groups[1], ",", "")
		value, err := decimal.NewFromString(digits)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q: %s", ErrMalformed, text, err)
		}
		if form.negative {
			value = value.Neg()
		}
		return value, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformed, text)
}

// Format renders a decimal back in the two-place form the portal
// uses, preserving sign and cents.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
