package domain

import "fmt"

// View is the render model painted by the UI after every mutation.
type View struct {
	Lines         []LineView
	TotalQuantity int
	TotalPrice    int64
	CountLabel    string
	IsEmpty       bool
}

type LineView struct {
	Key       string
	Name      string
	Options   string
	Quantity  int
	UnitPrice int64
	LineTotal int64
}

// View snapshots the cart for rendering.
func (c *Cart) View() View {
	lines := c.Lines()
	v := View{
		Lines:   make([]LineView, 0, len(lines)),
		IsEmpty: len(lines) == 0,
	}
	for _, l := range lines {
		v.Lines = append(v.Lines, LineView{
			Key:       l.Key,
			Name:      l.Name,
			Options:   l.Options,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.Subtotal(),
		})
	}
	v.TotalQuantity, v.TotalPrice = c.Totals()
	v.CountLabel = CountLabel(v.TotalQuantity)
	return v
}

// CountLabel renders the dish counter shown next to the cart badge.
func CountLabel(n int) string {
	if n == 1 {
		return "1 plato"
	}
	return fmt.Sprintf("%d platos", n)
}
