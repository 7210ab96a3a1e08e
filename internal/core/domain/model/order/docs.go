// Package order provides domain entities and business logic for order
// management. It implements the Order aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Order: The aggregate root owning line items, contact snapshot, totals, and lifecycle
//   - Item: A line item with product snapshot fields and a derived total price
//   - CustomerInfo: The customer contact snapshot frozen at creation time
//   - Status: The lifecycle enumeration with a strictly linear forward path
//
// Key business rules:
//   - Orders must have a valid identifier, owner, contact snapshot, and at least one item
//   - The total amount is always derived from the items, never stored independently
//   - The forward path is Pending -> Processing -> Shipped -> Delivered, one step at a time
//   - Cancellation branches from Pending or Processing into the terminal Cancelled status
//   - Terminal orders (Delivered, Cancelled) are frozen
//
// Who is allowed to request a given transition is decided outside this
// package, by the policies in the services package. All timestamps are UTC.
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
