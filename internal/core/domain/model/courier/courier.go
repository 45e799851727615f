package courier

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

// ErrCourierIsNotConstructed is returned when a Courier instance was not
// created through NewCourier or RestoreCourier.
var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")

// Courier represents an independent courier participating in parcel relays.
//
// The aggregate keeps the courier's last known position (optional; a courier
// without a reported position is silently excluded from proximity results)
// and the declared movements used by the on-route query.
type Courier struct {
	// id is the unique identifier for the courier
	id kernel.UUID

	// name is the human-readable courier name
	name string

	// location is the last known position, nil when never reported
	location *kernel.GeoPoint

	// movements are the courier's declared route legs
	movements []*Movement

	guard guard.ConstructorGuard
}

// NewCourier creates a courier with no reported position and no movements.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage,
// including its last known position and declared movements.
func RestoreCourier(
	id kernel.UUID,
	name string,
	location *kernel.GeoPoint,
	movements []*Movement,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setLocation(location),
		c.setMovements(movements),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Courier was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the human-readable courier name.
func (c *Courier) Name() string {
	return c.name
}

// Location returns the courier's last known position.
// Returns nil when the courier never reported one.
func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

// Movements returns the courier's declared route legs.
func (c *Courier) Movements() []*Movement {
	return c.movements
}

// ActiveMovements returns only the legs the courier is currently travelling.
func (c *Courier) ActiveMovements() []*Movement {
	active := make([]*Movement, 0, len(c.movements))
	for _, m := range c.movements {
		if m.IsActive() {
			active = append(active, m)
		}
	}
	return active
}

// ReportLocation updates the courier's last known position.
func (c *Courier) ReportLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = &location
	return nil
}

// DeclareMovement adds a new active route leg for the courier.
func (c *Courier) DeclareMovement(movement *Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}

	c.movements = append(c.movements, movement)
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Courier) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		c.location = nil
		return nil
	}

	if err := location.Validate(); err != nil {
		return err
	}

	loc := *location
	c.location = &loc
	return nil
}

func (c *Courier) setMovements(movements []*Movement) error {
	for _, m := range movements {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	c.movements = movements
	return nil
}
