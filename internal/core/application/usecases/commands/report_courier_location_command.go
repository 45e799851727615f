package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

// ErrReportCourierLocationCommandIsNotConstructed is returned when a
// ReportCourierLocationCommand was not created through its constructor.
var ErrReportCourierLocationCommandIsNotConstructed = errors.New(
	"ReportCourierLocationCommand must be created via NewReportCourierLocationCommand constructor",
)

// ReportCourierLocationCommand represents a courier reporting their current
// position. The latest report overwrites any previous one; the proximity
// query only ever looks at the last known position.
type ReportCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	location  kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportCourierLocationCommand creates a command carrying a courier's
// reported position.
func NewReportCourierLocationCommand(courierID kernel.UUID, location kernel.GeoPoint) (ReportCourierLocationCommand, error) {
	cmd := ReportCourierLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setLocation(location),
	); err != nil {
		return ReportCourierLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportCourierLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c ReportCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Location returns the reported position.
func (c ReportCourierLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *ReportCourierLocationCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}

func (c *ReportCourierLocationCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
