package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

// ErrTakeParcelCommandIsNotConstructed is returned when a TakeParcelCommand
// was not created through its constructor.
var ErrTakeParcelCommandIsNotConstructed = errors.New(
	"TakeParcelCommand must be created via NewTakeParcelCommand constructor",
)

// TakeParcelCommand represents a courier's request to take first custody of
// an available parcel.
//
// Example:
//
//	cmd, err := NewTakeParcelCommand(parcelID, courierID)
//	if err != nil {
//	    return fmt.Errorf("invalid take request: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to take parcel: %w", err)
//	}
type TakeParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID  kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTakeParcelCommand creates a command for a courier to take a parcel.
// Validates that both identifiers are valid.
func NewTakeParcelCommand(parcelID kernel.UUID, courierID kernel.UUID) (TakeParcelCommand, error) {
	cmd := TakeParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setCourierID(courierID),
	); err != nil {
		return TakeParcelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TakeParcelCommand) Validate() error {
	return c.guard.Validate(ErrTakeParcelCommandIsNotConstructed)
}

// ParcelID returns the parcel to take.
func (c TakeParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// CourierID returns the courier taking custody.
func (c TakeParcelCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *TakeParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *TakeParcelCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
