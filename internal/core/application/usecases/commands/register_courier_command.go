package commands

import (
	"errors"

	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

// ErrRegisterCourierCommandIsNotConstructed is returned when a
// RegisterCourierCommand was not created through its constructor.
var ErrRegisterCourierCommandIsNotConstructed = errors.New(
	"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
)

// RegisterCourierCommand represents a request to register a new courier.
// A freshly registered courier has no reported position and no movements;
// it becomes visible to the proximity queries after its first location
// report.
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	name string

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand creates a command to register a courier with
// the given display name.
func NewRegisterCourierCommand(name string) (RegisterCourierCommand, error) {
	cmd := RegisterCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setName(name); err != nil {
		return RegisterCourierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// Name returns the courier's display name.
func (c RegisterCourierCommand) Name() string {
	return c.name
}

func (c *RegisterCourierCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}
