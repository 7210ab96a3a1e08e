package order

import (
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with a strictly linear forward path plus a
// cancellation branch:
//
//	Pending ──> Processing ──> Shipped ──> Delivered
//	   │             │
//	   └──────┬──────┘
//	          v
//	      Cancelled
//
// Delivered and Cancelled are terminal: no further transitions are possible.
// The forward path never skips a step and never moves backward; which actor
// may request a given step is decided by the status transition policy, not
// by this type.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status of every new order. Pending orders
	// wait for fulfillment to pick them up, or for the background promoter
	// once they are old enough.
	StatusPending

	// StatusProcessing indicates fulfillment has started.
	StatusProcessing

	// StatusShipped indicates the order left the warehouse; a tracking
	// number is typically assigned at this point.
	StatusShipped

	// StatusDelivered indicates the order reached the customer.
	// This is a terminal state.
	StatusDelivered

	// StatusCancelled indicates the order was cancelled from Pending or
	// Processing. This is a terminal state.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusProcessing: "processing",
		StatusShipped:    "shipped",
		StatusDelivered:  "delivered",
		StatusCancelled:  "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:    "pending",
		StatusProcessing: "processing",
		StatusShipped:    "shipped",
		StatusDelivered:  "delivered",
		StatusCancelled:  "cancelled",
	}
}

// getForwardIndexes maps each status on the forward path to its position.
// Cancelled is deliberately absent: it is a branch, not a forward step.
func getForwardIndexes() map[Status]int {
	return map[Status]int{
		StatusPending:    1,
		StatusProcessing: 2,
		StatusShipped:    3,
		StatusDelivered:  4,
	}
}

// StatusFromString parses an external status name ("pending", "shipped", ...)
// into a Status. Matching is case-insensitive.
func StatusFromString(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getValidStatusStrings() {
		if name == normalized {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is valid.
// Valid statuses are: Pending, Processing, Shipped, Delivered, Cancelled.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the lowercase name of the status.
// Returns "unknown" for invalid status values.
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
// Delivered and Cancelled orders are frozen: neither their status nor their
// items may change afterwards.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ForwardIndex returns the status's position on the forward path
// (Pending=1 .. Delivered=4) and whether the status is on that path.
// Cancelled and Unknown are not on the forward path.
func (s Status) ForwardIndex() (int, bool) {
	idx, ok := getForwardIndexes()[s]
	return idx, ok
}

// NextForward returns the single next status on the forward path, if one
// exists. Delivered (end of path) and Cancelled (branch) have no next step.
func (s Status) NextForward() (Status, bool) {
	idx, ok := s.ForwardIndex()
	if !ok {
		return StatusUnknown, false
	}
	for status, i := range getForwardIndexes() {
		if i == idx+1 {
			return status, true
		}
	}
	return StatusUnknown, false
}
