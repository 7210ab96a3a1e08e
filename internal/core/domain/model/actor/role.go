package actor

import (
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
)

// Role represents the privilege level of the party issuing a request.
//
// Customer, Vendor, and Admin arrive from the authentication collaborator.
// System is reserved for background processes such as the pending-order
// promoter and is never accepted from external input.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleCustomer is an ordinary buyer. Customers see only their own orders
	// and may cancel a fresh PENDING order, but may not drive the
	// fulfillment workflow.
	RoleCustomer

	// RoleVendor fulfils orders: advances the forward status path and may
	// cancel PENDING or PROCESSING orders without a time limit.
	RoleVendor

	// RoleAdmin has the same workflow powers as a vendor plus access to
	// operational endpoints such as the manual promotion trigger.
	RoleAdmin

	// RoleSystem is the internal actor used by the background promoter.
	// It is permitted exactly one transition: PENDING to PROCESSING.
	RoleSystem
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RoleVendor:   "vendor",
		RoleAdmin:    "admin",
		RoleSystem:   "system",
	}
}

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleCustomer: "customer",
		RoleVendor:   "vendor",
		RoleAdmin:    "admin",
		RoleSystem:   "system",
	}
}

// RoleFromString parses an external role name ("customer", "vendor", "admin")
// into a Role. Matching is case-insensitive. RoleSystem is deliberately not
// parseable: external callers must never impersonate the system actor.
func RoleFromString(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, nil
	case "vendor":
		return RoleVendor, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, errs.NewValueIsInvalidErrorWithCause(
			"role is invalid",
			fmt.Errorf("%q is not a valid role", s),
		)
	}
}

// Validate checks if the Role value is valid.
// Valid roles are: RoleCustomer, RoleVendor, RoleAdmin, RoleSystem.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"role is invalid",
			fmt.Errorf("%d is not a valid role", r),
		)
	}
	return nil
}

// String returns the lowercase name of the role.
// Returns "unknown" for invalid role values.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// IsElevated reports whether the role may drive the fulfillment workflow.
// Only vendors and admins are elevated; the system actor has its own
// narrower allowance and is not considered elevated.
func (r Role) IsElevated() bool {
	return r == RoleVendor || r == RoleAdmin
}
