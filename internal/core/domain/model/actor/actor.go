package actor

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
)

// ErrActorIsNotConstructed is returned when an Actor instance was not created
// through the NewActor factory function.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor identifies the authenticated party issuing a request: a user id plus
// a role. The authentication mechanics live outside the core; the workflow
// only ever consumes this value object.
type Actor struct {
	id   kernel.UUID
	role Role

	isConstructed bool
}

// NewActor creates an Actor with a validated identity and role.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}

	return Actor{
		id:            id,
		role:          role,
		isConstructed: true,
	}, nil
}

// NewSystemActor creates the internal actor used by background processing.
// Its identity is freshly generated; nothing keys off it beyond logging.
func NewSystemActor() Actor {
	return Actor{
		id:            kernel.NewUUID(),
		role:          RoleSystem,
		isConstructed: true,
	}
}

// Validate ensures the Actor was created through a constructor.
func (a Actor) Validate() error {
	if !a.isConstructed {
		return ErrActorIsNotConstructed
	}
	return nil
}

// ID returns the actor's user identifier.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}
