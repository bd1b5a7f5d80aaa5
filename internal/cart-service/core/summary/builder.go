// Package summary derives the read-only order summary of a cart at checkout time.
//
// One Builder serves both checkout flows: a plain dialog summary, and a
// greeting-prefixed message handed off to an external messaging service
// through a deep link.
package summary

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
)

// Mode selects which textual rendering Build produces.
type Mode string

const (
	ModeDialog  Mode = "dialog"
	ModeMessage Mode = "message"
)

const (
	DefaultServiceBase = "https://wa.me/"
	Greeting           = "Hola, quiero hacer un pedido:"
	messageOptionSep   = " | "
)

// ParseMode maps a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDialog:
		return ModeDialog, nil
	case ModeMessage, "":
		return ModeMessage, nil
	default:
		return "", fmt.Errorf("summary: unknown mode %q", s)
	}
}

// Summary is the output of Build for the configured mode.
type Summary struct {
	Mode          Mode
	Text          string
	Link          string
	TotalQuantity int
	Total         int64
}

// Builder renders carts into order summaries.
type Builder struct {
	mode        Mode
	serviceBase string
	destination string
	currency    domain.CurrencyFormatter
}

// NewBuilder returns a builder sending messages to destination (a phone-number-like
// identifier) on the service at serviceBase. An empty serviceBase uses DefaultServiceBase.
func NewBuilder(mode Mode, serviceBase, destination string, f domain.CurrencyFormatter) *Builder {
	if serviceBase == "" {
		serviceBase = DefaultServiceBase
	}
	return &Builder{
		mode:        mode,
		serviceBase: serviceBase,
		destination: destination,
		currency:    f,
	}
}

func (b *Builder) Mode() Mode { return b.mode }

// BuildDialogSummary lists "{quantity} × {name}" per line followed by the total.
// It reports false for an empty cart.
func (b *Builder) BuildDialogSummary(c *domain.Cart) (string, bool) {
	if c.IsEmpty() {
		return "", false
	}

	lines := c.Lines()
	rows := make([]string, 0, len(lines)+1)
	for _, l := range lines {
		rows = append(rows, fmt.Sprintf("%d × %s", l.Quantity, singleLine(l.Name)))
	}
	_, total := c.Totals()
	rows = append(rows, "Total: "+b.currency.FormatCurrency(total))
	return strings.Join(rows, "\n"), true
}

// BuildMessageText renders the order message: greeting, one bullet per line and the total.
// It reports false for an empty cart; callers must not send an empty order.
func (b *Builder) BuildMessageText(c *domain.Cart) (string, bool) {
	if c.IsEmpty() {
		return "", false
	}

	lines := c.Lines()
	rows := make([]string, 0, len(lines)+2)
	rows = append(rows, Greeting)

	var total int64
	for _, l := range lines {
		lineTotal := l.Subtotal()
		total += lineTotal

		var options string
		if l.Options != "" {
			options = " (" + strings.ReplaceAll(singleLine(l.Options), domain.OptionSeparator, messageOptionSep) + ")"
		}
		rows = append(rows, fmt.Sprintf("• %d × %s%s - %s", l.Quantity, singleLine(l.Name), options, b.currency.FormatCurrency(lineTotal)))
	}
	rows = append(rows, "Total: "+b.currency.FormatCurrency(total))
	return strings.Join(rows, "\n"), true
}

// BuildExternalOrderLink composes the deep link carrying message as the text parameter.
// Building the link has no side effect; opening it is up to the caller.
func (b *Builder) BuildExternalOrderLink(message string) string {
	return b.serviceBase + b.destination + "?text=" + encodeComponent(message)
}

// Build produces the summary for the configured mode. Message mode also carries the link.
func (b *Builder) Build(c *domain.Cart) (Summary, bool) {
	var (
		text string
		ok   bool
	)
	if b.mode == ModeDialog {
		text, ok = b.BuildDialogSummary(c)
	} else {
		text, ok = b.BuildMessageText(c)
	}
	if !ok {
		return Summary{}, false
	}

	s := Summary{Mode: b.mode, Text: text}
	s.TotalQuantity, s.Total = c.Totals()
	if b.mode == ModeMessage {
		s.Link = b.BuildExternalOrderLink(text)
	}
	return s, true
}

// singleLine collapses whitespace runs, line breaks included, to one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// componentUnescaper restores the characters encodeURIComponent leaves alone
// but url.QueryEscape escapes.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s the way a browser's encodeURIComponent does.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
