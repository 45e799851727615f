package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

// ErrDeclareMovementCommandIsNotConstructed is returned when a
// DeclareMovementCommand was not created through its constructor.
var ErrDeclareMovementCommandIsNotConstructed = errors.New(
	"DeclareMovementCommand must be created via NewDeclareMovementCommand constructor",
)

// DeclareMovementCommand represents a courier declaring a route leg they
// are about to travel. Declared legs feed the on-route query; they never
// affect custody or settlement.
type DeclareMovementCommand struct { //nolint:recvcheck //using for validation
	courierID   kernel.UUID
	origin      kernel.GeoPoint
	destination kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewDeclareMovementCommand creates a command carrying a courier's declared
// route leg.
func NewDeclareMovementCommand(
	courierID kernel.UUID,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) (DeclareMovementCommand, error) {
	cmd := DeclareMovementCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setEndpoints(origin, destination),
	); err != nil {
		return DeclareMovementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclareMovementCommand) Validate() error {
	return c.guard.Validate(ErrDeclareMovementCommandIsNotConstructed)
}

// CourierID returns the declaring courier.
func (c DeclareMovementCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Origin returns the declared start of the leg.
func (c DeclareMovementCommand) Origin() kernel.GeoPoint {
	return c.origin
}

// Destination returns the declared end of the leg.
func (c DeclareMovementCommand) Destination() kernel.GeoPoint {
	return c.destination
}

func (c *DeclareMovementCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}

func (c *DeclareMovementCommand) setEndpoints(origin kernel.GeoPoint, destination kernel.GeoPoint) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}
	c.origin = origin
	c.destination = destination
	return nil
}
