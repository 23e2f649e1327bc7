package pricing

import (
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultCurrency = "GBP"
	DefaultLocale   = "en-GB"
)

// symbols as rendered by the en-GB locale.
var symbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "US$",
	"JPY": "JP¥",
	"CAD": "CA$",
	"AUD": "A$",
}

// A Formatter renders amounts as display strings.
//
// Safe for concurrent use.
type Formatter struct {
	tag      language.Tag
	currency currency.Unit
}

func NewFormatter(locale, currencyCode string) (Formatter, error) {
	const op = "pricing.NewFormatter"

	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Formatter{}, fmt.Errorf(
			"%s: %w: locale %q: %w", op, domain.ErrConfiguration, locale, err,
		)
	}

	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	unit, err := parseCurrency(currencyCode)
	if err != nil {
		return Formatter{}, fmt.Errorf("%s: %w", op, err)
	}

	return Formatter{tag: tag, currency: unit}, nil
}

// Currency returns the ISO code used when none is given.
func (f Formatter) Currency() string {
	return f.currency.String()
}

// Format renders amount in currencyCode, or in the formatter's
// currency when currencyCode is empty. Output is deterministic
// for the same input.
func (f Formatter) Format(amount decimal.Decimal, currencyCode string) (string, error) {
	const op = "Formatter.Format"

	unit := f.currency
	if currencyCode != "" {
		var err error
		unit, err = parseCurrency(currencyCode)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))

	p := message.NewPrinter(f.tag)
	digits := p.Sprint(number.Decimal(
		rounded.Abs().InexactFloat64(), number.Scale(scale),
	))

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbolOf(unit))
	b.WriteString(digits)
	return b.String(), nil
}

// FormatString parses amount as a decimal before formatting.
func (f Formatter) FormatString(amount, currencyCode string) (string, error) {
	const op = "Formatter.FormatString"

	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("%s: %w: amount %q: %w", op, domain.ErrParse, amount, err)
	}

	s, err := f.Format(d, currencyCode)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func parseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return currency.Unit{}, fmt.Errorf(
			"%w: currency %q: %w", domain.ErrConfiguration, code, err,
		)
	}
	return unit, nil
}

func symbolOf(unit currency.Unit) string {
	code := unit.String()
	if s, ok := symbols[code]; ok {
		return s
	}
	return code + "\u00a0"
}
