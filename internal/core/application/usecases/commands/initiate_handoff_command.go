package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

// ErrInitiateHandoffCommandIsNotConstructed is returned when an
// InitiateHandoffCommand was not created through its constructor.
var ErrInitiateHandoffCommandIsNotConstructed = errors.New(
	"InitiateHandoffCommand must be created via NewInitiateHandoffCommand constructor",
)

// InitiateHandoffCommand represents an outgoing courier's request to hand a
// parcel to another courier at a physical address.
//
// Example:
//
//	cmd, err := NewInitiateHandoffCommand(parcelID, courierA, courierB, "12 Rue de la Paix, Paris")
//	if err != nil {
//	    return fmt.Errorf("invalid handoff request: %w", err)
//	}
//	segment, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to initiate handoff: %w", err)
//	}
//	fmt.Printf("relay code for the incoming courier: %s", segment.Code())
type InitiateHandoffCommand struct { //nolint:recvcheck //using for validation
	parcelID       kernel.UUID
	fromCourierID  kernel.UUID
	toCourierID    kernel.UUID
	handoffAddress string

	guard guard.ConstructorGuard
}

// NewInitiateHandoffCommand creates a command to initiate a handoff.
// Validates identifiers and requires a non-empty handoff address; the
// outgoing and incoming courier must differ.
func NewInitiateHandoffCommand(
	parcelID kernel.UUID,
	fromCourierID kernel.UUID,
	toCourierID kernel.UUID,
	handoffAddress string,
) (InitiateHandoffCommand, error) {
	cmd := InitiateHandoffCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setCouriers(fromCourierID, toCourierID),
		cmd.setHandoffAddress(handoffAddress),
	); err != nil {
		return InitiateHandoffCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c InitiateHandoffCommand) Validate() error {
	return c.guard.Validate(ErrInitiateHandoffCommandIsNotConstructed)
}

// ParcelID returns the parcel being handed off.
func (c InitiateHandoffCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// FromCourierID returns the outgoing courier.
func (c InitiateHandoffCommand) FromCourierID() kernel.UUID {
	return c.fromCourierID
}

// ToCourierID returns the incoming courier.
func (c InitiateHandoffCommand) ToCourierID() kernel.UUID {
	return c.toCourierID
}

// HandoffAddress returns the free-text meeting point to geocode.
func (c InitiateHandoffCommand) HandoffAddress() string {
	return c.handoffAddress
}

func (c *InitiateHandoffCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *InitiateHandoffCommand) setCouriers(fromCourierID kernel.UUID, toCourierID kernel.UUID) error {
	if err := errors.Join(fromCourierID.Validate(), toCourierID.Validate()); err != nil {
		return err
	}

	if fromCourierID.IsEqual(toCourierID) {
		return errs.NewValueIsInvalidError("toCourierId must differ from fromCourierId")
	}

	c.fromCourierID = fromCourierID
	c.toCourierID = toCourierID
	return nil
}

func (c *InitiateHandoffCommand) setHandoffAddress(handoffAddress string) error {
	if handoffAddress == "" {
		return errs.NewValueIsRequiredError("handoffAddress")
	}
	c.handoffAddress = handoffAddress
	return nil
}
