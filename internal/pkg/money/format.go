// Package money renders whole-unit amounts as localized currency strings.
package money

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

const (
	DefaultLocale   = "es-CO"
	DefaultCurrency = "COP"
)

// Formatter formats amounts for one fixed locale and currency.
// Amounts are whole currency units; COP has no subunits in practice.
type Formatter struct {
	tag      language.Tag
	currency string
	symbol   string
	groupSep string
}

// NewFormatter parses locale as a BCP 47 tag and binds it to the ISO currency code.
func NewFormatter(locale, currency string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("money: parse locale %q: %w", locale, err)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("money: invalid currency code %q", currency)
	}

	return &Formatter{
		tag:      tag,
		currency: currency,
		symbol:   symbolFor(currency),
		groupSep: groupSeparatorFor(tag),
	}, nil
}

// Default returns the es-CO / COP formatter used by the restaurant.
func Default() *Formatter {
	f, err := NewFormatter(DefaultLocale, DefaultCurrency)
	if err != nil {
		panic(err)
	}
	return f
}

// Locale returns the canonical locale tag.
func (f *Formatter) Locale() string { return f.tag.String() }

// Currency returns the ISO 4217 code.
func (f *Formatter) Currency() string { return f.currency }

// FormatCurrency renders amount with zero decimal places.
// Example: FormatCurrency(25000) => "$ 25.000" for es-CO.
func (f *Formatter) FormatCurrency(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	out := f.symbol + " " + f.group(amount)
	if neg {
		return "-" + out
	}
	return out
}

func (f *Formatter) group(n int64) string {
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteString(f.groupSep)
		}
		b.WriteRune(c)
	}
	return b.String()
}

func symbolFor(currency string) string {
	switch currency {
	case "COP", "USD", "MXN", "CLP", "ARS":
		return "$"
	case "EUR":
		return "€"
	default:
		return currency
	}
}

// groupSeparatorFor picks the thousands separator for the tag's base language.
func groupSeparatorFor(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "es", "pt", "de", "it", "nl", "id":
		return "."
	default:
		return ","
	}
}
