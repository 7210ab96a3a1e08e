// Package guard provides a defensive construction pattern for value objects,
// entities, commands, and queries. Embedding a ConstructorGuard in a struct
// makes zero-value instances detectable, so objects that bypass their
// constructor fail validation instead of carrying unvalidated state.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is supplied for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes properly constructed objects from zero values.
// The internal flag is only set by NewConstructorGuard, which constructors call;
// a struct initialized directly keeps the zero value and fails Validate.
//
// Example:
//
//	type CancelOrderCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func NewCancelOrderCommand(orderID kernel.UUID) (CancelOrderCommand, error) {
//	    if err := orderID.Validate(); err != nil {
//	        return CancelOrderCommand{}, err
//	    }
//	    return CancelOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c CancelOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
