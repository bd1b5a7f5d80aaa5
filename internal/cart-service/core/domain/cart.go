package domain

import (
	"golang.org/x/text/unicode/norm"
)

// StandardPreparation labels a line that carries no customization.
const StandardPreparation = "Preparación estándar"

const keySeparator = "::"

// LineItem is one aggregated row for a unique dish + customization.
type LineItem struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Options   string `json:"options,omitempty"`
	Quantity  int    `json:"quantity"`
}

func (i LineItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// LineKey derives the aggregation key for a dish and its options string.
// An empty options string is keyed as the standard preparation.
func LineKey(name, options string) string {
	return norm.NFC.String(name) + keySeparator + norm.NFC.String(optionLabel(options))
}

func optionLabel(options string) string {
	if options == "" {
		return StandardPreparation
	}
	return options
}

// Cart is an insertion-ordered collection of line items keyed by LineKey.
// It is not safe for concurrent use; callers serialise access.
type Cart struct {
	order []string
	items map[string]*LineItem
}

func NewCart() *Cart {
	return &Cart{items: make(map[string]*LineItem)}
}

// AddItem adds one unit of the dish. The unit price and options of an existing
// line are those recorded when the line was created.
func (c *Cart) AddItem(name string, unitPrice int64, options string) LineItem {
	key := LineKey(name, options)
	if item, ok := c.items[key]; ok {
		item.Quantity++
		return *item
	}

	item := &LineItem{
		Key:       key,
		Name:      name,
		UnitPrice: unitPrice,
		Options:   optionLabel(options),
		Quantity:  1,
	}
	c.items[key] = item
	c.order = append(c.order, key)
	return *item
}

// ChangeQuantity applies delta to the line. A line that reaches zero is removed.
// It reports false when the key is not in the cart.
func (c *Cart) ChangeQuantity(key string, delta int) bool {
	item, ok := c.items[key]
	if !ok {
		return false
	}

	item.Quantity += delta
	if item.Quantity <= 0 {
		c.remove(key)
	}
	return true
}

func (c *Cart) remove(key string) {
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.order = nil
	c.items = make(map[string]*LineItem)
}

// Get returns a copy of the line stored under key.
func (c *Cart) Get(key string) (LineItem, bool) {
	item, ok := c.items[key]
	if !ok {
		return LineItem{}, false
	}
	return *item, true
}

func (c *Cart) Len() int { return len(c.order) }

func (c *Cart) IsEmpty() bool { return len(c.order) == 0 }

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.items[key])
	}
	return out
}

// Totals sums quantities and line subtotals. It is computed on every call.
func (c *Cart) Totals() (totalQuantity int, totalPrice int64) {
	for _, item := range c.items {
		totalQuantity += item.Quantity
		totalPrice += item.Subtotal()
	}
	return totalQuantity, totalPrice
}

// Restore rebuilds a cart from previously exported lines, preserving their order.
// Lines with a non-positive quantity are dropped; duplicate keys are merged.
func Restore(lines []LineItem) *Cart {
	c := NewCart()
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if line.Key == "" {
			line.Key = LineKey(line.Name, line.Options)
		}
		if existing, ok := c.items[line.Key]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		item := line
		c.items[item.Key] = &item
		c.order = append(c.order, item.Key)
	}
	return c
}
