package courier

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
)

// ErrMovementIsNotConstructed is returned when a Movement instance was not
// created through NewMovement or RestoreMovement.
var ErrMovementIsNotConstructed = errors.New("Movement must be created via NewMovement or RestoreMovement constructor")

// Movement is a courier's declared origin -> destination leg. It is used
// only by the proximity queries to surface parcels along the courier's way;
// the relay ledger and settlement engine never touch it.
type Movement struct {
	// id is the unique identifier for the movement
	id kernel.UUID

	// origin is the declared start of the leg
	origin kernel.GeoPoint

	// destination is the declared end of the leg
	destination kernel.GeoPoint

	// active marks the leg the courier is currently travelling
	active bool

	// isConstructed ensures the movement was created via a constructor
	isConstructed bool
}

// NewMovement creates an active movement with validated endpoints.
func NewMovement(id kernel.UUID, origin kernel.GeoPoint, destination kernel.GeoPoint) (*Movement, error) {
	return RestoreMovement(id, origin, destination, true)
}

// RestoreMovement reconstructs a Movement from persistent storage.
func RestoreMovement(
	id kernel.UUID,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
	active bool,
) (*Movement, error) {
	m := &Movement{
		active:        active,
		isConstructed: true,
	}

	if err := errors.Join(
		m.setID(id),
		m.setEndpoints(origin, destination),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate ensures the Movement instance was properly constructed.
func (m *Movement) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMovementIsNotConstructed
	}

	return nil
}

// ID returns the movement's unique identifier.
func (m *Movement) ID() kernel.UUID {
	return m.id
}

// Origin returns the declared start of the leg.
func (m *Movement) Origin() kernel.GeoPoint {
	return m.origin
}

// Destination returns the declared end of the leg.
func (m *Movement) Destination() kernel.GeoPoint {
	return m.destination
}

// IsActive reports whether the courier is currently travelling this leg.
func (m *Movement) IsActive() bool {
	return m.active
}

// Deactivate marks the leg as no longer travelled.
func (m *Movement) Deactivate() {
	m.active = false
}

func (m *Movement) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Movement) setEndpoints(origin kernel.GeoPoint, destination kernel.GeoPoint) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}

	m.origin = origin
	m.destination = destination
	return nil
}
