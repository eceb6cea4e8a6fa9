// Package checkout converts a non-empty cart into a committed sale and the
// matching stock decrement, as one atomic unit.
package checkout

import (
	"fmt"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// PaymentMethod enumerates how a sale was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether the payment method is one of the known values.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// State is the checkout session state.
type State string

const (
	StateIdle          State = "idle"
	StateCartPopulated State = "cart_populated"
	StatePending       State = "checkout_pending"
	StateCommitted     State = "committed"
)

// Errors surfaced by the engine and the commit path.
var (
	// ErrEmptyCart rejects a checkout attempted with zero lines.
	ErrEmptyCart = fmt.Errorf("cart is empty: %w", httpx.ErrValidation)
	// ErrInvalidPayment rejects unknown payment methods.
	ErrInvalidPayment = fmt.Errorf("unknown payment method: %w", httpx.ErrValidation)
	// ErrInsufficientStock aborts a commit that would oversell a product.
	// Nothing is written when this is returned.
	ErrInsufficientStock = fmt.Errorf("insufficient stock: %w", httpx.ErrConflict)
	// ErrInvalidTransition signals a state-machine misuse.
	ErrInvalidTransition = fmt.Errorf("invalid checkout transition: %w", httpx.ErrConflict)
)

// ConfirmInput carries the payment confirmation details.
type ConfirmInput struct {
	CustomerName  string        `json:"customer_name"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required"`
}
