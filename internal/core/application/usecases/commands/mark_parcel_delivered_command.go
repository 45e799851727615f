package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

// ErrMarkParcelDeliveredCommandIsNotConstructed is returned when a
// MarkParcelDeliveredCommand was not created through its constructor.
var ErrMarkParcelDeliveredCommandIsNotConstructed = errors.New(
	"MarkParcelDeliveredCommand must be created via NewMarkParcelDeliveredCommand constructor",
)

// MarkParcelDeliveredCommand records the external delivery-confirmation
// write moving a parcel from InTransit to Delivered. The confirmation
// workflow itself lives upstream; the core only validates and applies the
// phase transition.
type MarkParcelDeliveredCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkParcelDeliveredCommand creates a command marking a parcel delivered.
func NewMarkParcelDeliveredCommand(parcelID kernel.UUID) (MarkParcelDeliveredCommand, error) {
	cmd := MarkParcelDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setParcelID(parcelID); err != nil {
		return MarkParcelDeliveredCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkParcelDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkParcelDeliveredCommandIsNotConstructed)
}

// ParcelID returns the parcel to mark delivered.
func (c MarkParcelDeliveredCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

func (c *MarkParcelDeliveredCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}
