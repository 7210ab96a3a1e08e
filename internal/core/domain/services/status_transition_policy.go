package services

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/order"
)

// ErrForbiddenTransition is the sentinel wrapped by every ForbiddenTransitionError.
// Use errors.Is with this sentinel to detect any policy denial regardless of
// the specific reason.
var ErrForbiddenTransition = errors.New("status transition is forbidden")

// DenyReason classifies why the status transition policy refused a request.
// The reason is part of the API response so callers can distinguish a
// workflow violation from an authorization failure.
type DenyReason int

const (
	// DenyReasonUnknown represents an undefined deny reason.
	DenyReasonUnknown DenyReason = iota

	// DenyReasonTerminalState means the order is Delivered or Cancelled and
	// permits no further transitions.
	DenyReasonTerminalState

	// DenyReasonBackwardNotAllowed means the requested status lies behind the
	// current one on the forward path, or off the path entirely.
	DenyReasonBackwardNotAllowed

	// DenyReasonSkipNotAllowed means the requested status is further ahead
	// than the single next forward step.
	DenyReasonSkipNotAllowed

	// DenyReasonInsufficientRole means the step itself is legal but the
	// requesting role is not permitted to perform it.
	DenyReasonInsufficientRole
)

func getDenyReasonStrings() map[DenyReason]string {
	return map[DenyReason]string{
		DenyReasonUnknown:            "unknown",
		DenyReasonTerminalState:      "terminal_state",
		DenyReasonBackwardNotAllowed: "backward_not_allowed",
		DenyReasonSkipNotAllowed:     "skip_not_allowed",
		DenyReasonInsufficientRole:   "insufficient_role",
	}
}

// String returns the snake_case name of the deny reason.
// This method implements the fmt.Stringer interface.
func (r DenyReason) String() string {
	if s, ok := getDenyReasonStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// ForbiddenTransitionError carries the full context of a policy denial:
// where the order was, where the actor wanted it to go, who asked, and why
// the policy said no. It unwraps to ErrForbiddenTransition.
type ForbiddenTransitionError struct {
	From   order.Status
	To     order.Status
	Role   actor.Role
	Reason DenyReason
}

// Error implements the error interface.
func (e *ForbiddenTransitionError) Error() string {
	return fmt.Sprintf(
		"%s: %s -> %s by %s (%s)",
		ErrForbiddenTransition, e.From, e.To, e.Role, e.Reason,
	)
}

// Unwrap enables errors.Is checks against ErrForbiddenTransition.
func (e *ForbiddenTransitionError) Unwrap() error {
	return ErrForbiddenTransition
}

// Decision is the outcome of evaluating a requested status change.
// When Allowed is false, Reason explains the denial. NoOp marks the special
// case of requesting the status a non-terminal order is already in: allowed,
// but the order must not be touched.
type Decision struct {
	Allowed bool
	NoOp    bool
	Reason  DenyReason
}

// StatusTransitionPolicy is a domain service that decides whether a given
// actor may move an order from its current status to a requested one.
//
// The rules it enforces:
//   - Terminal orders (Delivered, Cancelled) permit no requests at all,
//     same-status ones included
//   - Requesting the current status again is otherwise an allowed no-op
//   - The forward path moves exactly one step at a time, never backward
//   - Cancelled cannot be reached through this policy at all; cancellation
//     is a separate operation governed by CancellationPolicy
//   - Vendors and admins may perform any legal forward step
//   - The system role may only perform Pending -> Processing
//   - Customers may not change status at all
//
// Denials are classified in a fixed precedence: terminal state first, then
// path geometry (backward before skip), then role. A vendor asking for
// Pending -> Shipped is told the skip is the problem, not the role.
//
// The policy is stateless and safe for concurrent use.
type StatusTransitionPolicy struct{}

// NewStatusTransitionPolicy creates a new StatusTransitionPolicy instance.
func NewStatusTransitionPolicy() StatusTransitionPolicy {
	return StatusTransitionPolicy{}
}

// Decide evaluates whether the given role may move an order from current to
// requested. It never mutates anything; callers apply the transition
// themselves when the decision allows it and NoOp is false.
func (p StatusTransitionPolicy) Decide(
	current, requested order.Status,
	role actor.Role,
) Decision {
	if current.IsTerminal() {
		return Decision{Reason: DenyReasonTerminalState}
	}

	if requested == current {
		return Decision{Allowed: true, NoOp: true}
	}

	currentIdx, currentOnPath := current.ForwardIndex()
	requestedIdx, requestedOnPath := requested.ForwardIndex()

	// Cancelled (and anything else off the forward path) can never be a
	// destination here.
	if !currentOnPath || !requestedOnPath || requestedIdx < currentIdx {
		return Decision{Reason: DenyReasonBackwardNotAllowed}
	}

	if requestedIdx > currentIdx+1 {
		return Decision{Reason: DenyReasonSkipNotAllowed}
	}

	if !p.roleMayStep(current, role) {
		return Decision{Reason: DenyReasonInsufficientRole}
	}

	return Decision{Allowed: true}
}

// Authorize is the error-returning form of Decide. It returns nil when the
// transition is allowed (including the no-op case) and a
// *ForbiddenTransitionError otherwise.
func (p StatusTransitionPolicy) Authorize(
	current, requested order.Status,
	role actor.Role,
) error {
	decision := p.Decide(current, requested, role)
	if decision.Allowed {
		return nil
	}

	return &ForbiddenTransitionError{
		From:   current,
		To:     requested,
		Role:   role,
		Reason: decision.Reason,
	}
}

// AvailableNext lists the statuses the given role may move an order to from
// its current status, excluding the no-op. The result is empty for terminal
// orders and for roles without transition rights.
func (p StatusTransitionPolicy) AvailableNext(
	current order.Status,
	role actor.Role,
) []order.Status {
	next, ok := current.NextForward()
	if !ok {
		return nil
	}
	if !p.roleMayStep(current, role) {
		return nil
	}
	return []order.Status{next}
}

func (p StatusTransitionPolicy) roleMayStep(current order.Status, role actor.Role) bool {
	switch role {
	case actor.RoleVendor, actor.RoleAdmin:
		return true
	case actor.RoleSystem:
		return current == order.StatusPending
	default:
		return false
	}
}
