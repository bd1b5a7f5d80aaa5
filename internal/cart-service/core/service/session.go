package service

import (
	"strings"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/summary"
)

// Result is what the UI gets back for every intent: the fresh render model and
// whatever the intent produced along the way.
type Result struct {
	// Applied is false when the intent was rejected as a no-op.
	Applied bool
	View    domain.View
	Toasts  []string
	Pending *domain.PendingCustomization
	Summary *summary.Summary
	// Confirmed is set when ConfirmOrder handed an order off.
	Confirmed bool
}

// session is the state of one page session. It is driven by one intent at a time.
type session struct {
	id      string
	cart    *domain.Cart
	pending *domain.PendingCustomization
}

func newSession(id string) *session {
	return &session{id: id, cart: domain.NewCart()}
}

func restoreSession(snap *domain.SessionSnapshot) *session {
	return &session{
		id:      snap.ID,
		cart:    domain.Restore(snap.Lines),
		pending: snap.Pending,
	}
}

func (s *session) snapshot() *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		ID:      s.id,
		Lines:   s.cart.Lines(),
		Pending: s.pending,
	}
}

// apply runs one intent against the session. Invalid intents leave the session
// untouched and come back with Applied=false.
func (s *session) apply(in Intent, f domain.CurrencyFormatter, b *summary.Builder) Result {
	var r Result

	switch in := in.(type) {
	case AddItem:
		r.Applied = s.addItem(in.Name, in.Price, in.Options, &r)
	case StartCustomization:
		if validDish(in.Dish) {
			s.pending = domain.NewPendingCustomization(in.Dish, f)
			r.Applied = true
		}
	case SubmitCustomization:
		if s.pending != nil {
			c := domain.Collect(s.pending.Dish, in.Selection, f)
			s.addItem(s.pending.Dish.Name, c.Price, c.OptionsString(), &r)
			s.pending = nil
			r.Applied = true
		}
	case CancelCustomization:
		r.Applied = s.pending != nil
		s.pending = nil
	case ChangeQuantity:
		if in.Delta == 1 || in.Delta == -1 {
			r.Applied = s.cart.ChangeQuantity(in.Key, in.Delta)
		}
	case Checkout:
		if sum, ok := b.Build(s.cart); ok {
			r.Summary = &sum
			r.Applied = true
		}
	case ConfirmOrder:
		if sum, ok := b.Build(s.cart); ok {
			r.Summary = &sum
			s.cart.Clear()
			r.Applied = true
			r.Confirmed = true
		}
	}

	r.View = s.cart.View()
	r.Pending = s.pending
	return r
}

func (s *session) addItem(name string, price int64, options string, r *Result) bool {
	if strings.TrimSpace(name) == "" || price < 0 {
		return false
	}
	s.cart.AddItem(name, price, options)
	r.Toasts = append(r.Toasts, name+" agregado al carrito")
	return true
}

func validDish(d domain.Dish) bool {
	return strings.TrimSpace(d.Name) != "" && d.BasePrice >= 0 && d.CoconutSurcharge >= 0
}
