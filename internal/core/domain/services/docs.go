// Package services provides domain services that evaluate business rules
// spanning more than one domain concept in the ordering system. It implements
// policy decisions that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - StatusTransitionPolicy: decides who may move an order along its lifecycle
//   - CancellationPolicy: decides who may cancel an order, and until when
//
// Both policies are pure decision makers: they inspect an order and an actor
// and answer yes or no, leaving the actual mutation to the application layer.
// This keeps authorization rules testable in isolation and in one place.
package services
