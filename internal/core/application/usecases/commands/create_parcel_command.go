package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

// ErrCreateParcelCommandIsNotConstructed is returned when a
// CreateParcelCommand was not created through its constructor.
var ErrCreateParcelCommandIsNotConstructed = errors.New(
	"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
)

// CreateParcelCommand represents a request to register a new parcel with its
// declared route. The parcel starts Pending and unheld; the order total
// arrives later from billing, so settlement stays dormant until then.
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	payerClientID kernel.UUID
	origin        kernel.GeoPoint
	destination   kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand creates a command to register a parcel for the
// given paying client with a declared origin and destination.
func NewCreateParcelCommand(
	payerClientID kernel.UUID,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) (CreateParcelCommand, error) {
	cmd := CreateParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPayerClientID(payerClientID),
		cmd.setRoute(origin, destination),
	); err != nil {
		return CreateParcelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

// PayerClientID returns the client whose pre-collected payment funds the
// relay.
func (c CreateParcelCommand) PayerClientID() kernel.UUID {
	return c.payerClientID
}

// Origin returns the declared route start.
func (c CreateParcelCommand) Origin() kernel.GeoPoint {
	return c.origin
}

// Destination returns the declared route end.
func (c CreateParcelCommand) Destination() kernel.GeoPoint {
	return c.destination
}

func (c *CreateParcelCommand) setPayerClientID(payerClientID kernel.UUID) error {
	if err := payerClientID.Validate(); err != nil {
		return err
	}
	c.payerClientID = payerClientID
	return nil
}

func (c *CreateParcelCommand) setRoute(origin kernel.GeoPoint, destination kernel.GeoPoint) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}
	c.origin = origin
	c.destination = destination
	return nil
}
