// Package actor provides the identity and role value objects for request
// authorization in the ordering system.
//
// The package includes:
//   - Role: the privilege level enumeration (customer, vendor, admin, system)
//   - Actor: a validated pairing of user identity and role
//
// Authentication itself is an external collaborator; the core receives a
// ready Actor per request and bases every policy decision on it.
package actor
