package service

import "github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"

// Intent is a discrete user action emitted by the UI layer.
type Intent interface {
	intentName() string
}

// AddItem adds one unit of a dish as-is, with an optional pre-built options string.
type AddItem struct {
	Name    string
	Price   int64
	Options string
}

// StartCustomization opens the customization dialog for a dish. It replaces any
// customization already in flight.
type StartCustomization struct {
	Dish domain.Dish
}

// SubmitCustomization resolves the pending customization and adds the result.
type SubmitCustomization struct {
	Selection domain.Selection
}

// CancelCustomization discards the pending customization.
type CancelCustomization struct{}

// ChangeQuantity moves a line's quantity by Delta, which must be +1 or -1.
type ChangeQuantity struct {
	Key   string
	Delta int
}

// Checkout asks for the pre-checkout summary.
type Checkout struct{}

// ConfirmOrder builds the final summary, hands it off and clears the cart.
type ConfirmOrder struct{}

func (AddItem) intentName() string             { return "add_item" }
func (StartCustomization) intentName() string  { return "start_customization" }
func (SubmitCustomization) intentName() string { return "submit_customization" }
func (CancelCustomization) intentName() string { return "cancel_customization" }
func (ChangeQuantity) intentName() string      { return "change_quantity" }
func (Checkout) intentName() string            { return "checkout" }
func (ConfirmOrder) intentName() string        { return "confirm_order" }

// IntentName returns the stable name used in logs and metrics.
func IntentName(i Intent) string { return i.intentName() }
