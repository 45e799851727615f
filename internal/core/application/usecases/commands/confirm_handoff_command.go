package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

// ErrConfirmHandoffCommandIsNotConstructed is returned when a
// ConfirmHandoffCommand was not created through its constructor.
var ErrConfirmHandoffCommandIsNotConstructed = errors.New(
	"ConfirmHandoffCommand must be created via NewConfirmHandoffCommand constructor",
)

// ConfirmHandoffCommand represents an incoming courier presenting the
// confirmation code to prove physical receipt of the parcel.
type ConfirmHandoffCommand struct { //nolint:recvcheck //using for validation
	parcelID    kernel.UUID
	toCourierID kernel.UUID
	code        string

	guard guard.ConstructorGuard
}

// NewConfirmHandoffCommand creates a command to confirm a handoff.
// The code is kept as typed; matching is case-insensitive at confirmation.
func NewConfirmHandoffCommand(parcelID kernel.UUID, toCourierID kernel.UUID, code string) (ConfirmHandoffCommand, error) {
	cmd := ConfirmHandoffCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setToCourierID(toCourierID),
		cmd.setCode(code),
	); err != nil {
		return ConfirmHandoffCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmHandoffCommand) Validate() error {
	return c.guard.Validate(ErrConfirmHandoffCommandIsNotConstructed)
}

// ParcelID returns the parcel whose handoff is being confirmed.
func (c ConfirmHandoffCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// ToCourierID returns the courier confirming receipt.
func (c ConfirmHandoffCommand) ToCourierID() kernel.UUID {
	return c.toCourierID
}

// Code returns the confirmation code as typed by the courier.
func (c ConfirmHandoffCommand) Code() string {
	return c.code
}

func (c *ConfirmHandoffCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *ConfirmHandoffCommand) setToCourierID(toCourierID kernel.UUID) error {
	if err := toCourierID.Validate(); err != nil {
		return err
	}
	c.toCourierID = toCourierID
	return nil
}

func (c *ConfirmHandoffCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	c.code = code
	return nil
}
