package domain

import (
	"fmt"
	"strings"
)

// OptionSeparator joins the options of one customized line.
const OptionSeparator = " • "

// cutDish is the only dish that offers a preferred cut.
const cutDish = "bocachico"

const (
	StyleFried   = "frito"
	StyleStewed  = "sudado"
	RiceWhite    = "blanco"
	RiceCoconut  = "coco"
	CutHead      = "cabeza"
	CutCenter    = "centro"
	CutTail      = "cola"
	DefaultStyle = StyleFried
	DefaultRice  = RiceWhite
	DefaultCut   = CutCenter
)

var cutLabels = map[string]string{
	CutHead:   "Cabeza",
	CutCenter: "Centro",
	CutTail:   "Cola",
}

// CurrencyFormatter renders an amount for display.
type CurrencyFormatter interface {
	FormatCurrency(amount int64) string
}

// Dish is the base dish a customization starts from.
type Dish struct {
	Name             string `json:"name"`
	BasePrice        int64  `json:"base_price"`
	CoconutSurcharge int64  `json:"coconut_surcharge,omitempty"`
	RiceApplicable   bool   `json:"rice_applicable"`
	StyleApplicable  bool   `json:"style_applicable"`
}

// CutApplicable reports whether the dish offers a preferred cut.
func (d Dish) CutApplicable() bool {
	return strings.EqualFold(strings.TrimSpace(d.Name), cutDish)
}

// CoconutSurchargeApplies reports whether choosing coconut rice changes the price.
func (d Dish) CoconutSurchargeApplies() bool {
	return d.RiceApplicable && d.CoconutSurcharge > 0
}

// Selection holds the values submitted from the customization form.
// Empty Style and Rice fall back to the form defaults.
type Selection struct {
	Style       string
	Rice        string
	NoSalad     bool
	NoPatacones bool
	ExtraLime   bool
	Notes       string
	Cut         string
}

// PendingCustomization is the dish whose customization dialog is open.
type PendingCustomization struct {
	Dish Dish `json:"dish"`
	// SurchargeNote is shown next to the coconut rice choice, empty when no surcharge applies.
	SurchargeNote string `json:"surcharge_note,omitempty"`
}

func NewPendingCustomization(d Dish, f CurrencyFormatter) *PendingCustomization {
	p := &PendingCustomization{Dish: d}
	if d.CoconutSurchargeApplies() {
		p.SurchargeNote = surchargeNote(d.CoconutSurcharge, f)
	}
	return p
}

// Customization is the outcome of collecting a selection for a dish.
type Customization struct {
	Options []string
	Price   int64
}

// OptionsString joins the options, empty meaning standard preparation.
func (c Customization) OptionsString() string {
	return JoinOptions(c.Options)
}

// Collect turns a form selection into ordered option labels and a final unit price.
func Collect(d Dish, sel Selection, f CurrencyFormatter) Customization {
	var options []string

	if d.StyleApplicable {
		style := sel.Style
		if style == "" {
			style = DefaultStyle
		}
		if style == StyleStewed {
			options = append(options, "Preparación: Sudado")
		} else {
			options = append(options, "Preparación: Frito")
		}
	}

	rice := DefaultRice
	if d.RiceApplicable {
		if sel.Rice != "" {
			rice = sel.Rice
		}
		if rice == RiceCoconut {
			label := "Arroz con coco"
			if d.CoconutSurcharge > 0 {
				label += " " + surchargeNote(d.CoconutSurcharge, f)
			}
			options = append(options, label)
		} else {
			options = append(options, "Arroz blanco")
		}
	}

	if sel.NoSalad {
		options = append(options, "Sin ensalada")
	}
	if sel.NoPatacones {
		options = append(options, "Sin patacones")
	}
	if sel.ExtraLime {
		options = append(options, "Extra limón")
	}
	// Notes end up inside a single message line, so line breaks and runs of
	// whitespace collapse to one space.
	if notes := strings.Join(strings.Fields(sel.Notes), " "); notes != "" {
		options = append(options, "Nota: "+notes)
	}
	if d.CutApplicable() && sel.Cut != "" {
		label, ok := cutLabels[sel.Cut]
		if !ok {
			label = sel.Cut
		}
		options = append(options, "Parte preferida: "+label)
	}

	price := d.BasePrice
	if d.CoconutSurchargeApplies() && rice == RiceCoconut {
		price += d.CoconutSurcharge
	}

	return Customization{Options: options, Price: price}
}

// JoinOptions joins option labels with OptionSeparator.
func JoinOptions(options []string) string {
	return strings.Join(options, OptionSeparator)
}

func surchargeNote(amount int64, f CurrencyFormatter) string {
	return fmt.Sprintf("(+ %s)", f.FormatCurrency(amount))
}
