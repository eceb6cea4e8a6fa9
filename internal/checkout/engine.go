package checkout

import (
	"github.com/meridian-pos/meridian-pos/internal/cart"
)

// Engine drives one checkout session through
// Idle -> CartPopulated -> CheckoutPending -> Committed. Cancel returns a
// pending session to its populated state without touching the cart.
type Engine struct {
	cart  *cart.Cart
	state State
}

// NewEngine wraps the session's cart in a fresh engine.
func NewEngine(c *cart.Cart) *Engine {
	e := &Engine{cart: c, state: StateIdle}
	if !c.Empty() {
		e.state = StateCartPopulated
	}
	return e
}

// State returns the current session state.
func (e *Engine) State() State {
	return e.state
}

// Cart returns the wrapped cart.
func (e *Engine) Cart() *cart.Cart {
	return e.cart
}

// Begin moves to CheckoutPending on the "pay" action. An empty cart fails
// with ErrEmptyCart and the state is left as-is.
func (e *Engine) Begin() error {
	switch e.state {
	case StateIdle, StateCartPopulated:
		if e.cart.Empty() {
			return ErrEmptyCart
		}
		e.state = StatePending
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Confirm marks the pending session committed. The caller is responsible for
// having persisted the sale first; Confirm only finalizes the state machine
// and empties the cart.
func (e *Engine) Confirm() error {
	if e.state != StatePending {
		return ErrInvalidTransition
	}
	e.cart.Clear()
	e.state = StateCommitted
	return nil
}

// Cancel abandons a pending checkout. The cart is preserved.
func (e *Engine) Cancel() error {
	if e.state != StatePending {
		return ErrInvalidTransition
	}
	e.state = StateCartPopulated
	if e.cart.Empty() {
		e.state = StateIdle
	}
	return nil
}
