package parcel

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/settlement"

	"github.com/shopspring/decimal"
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not
	// created through NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel constructor")

	// ErrParcelAlreadyHeld is returned when taking a parcel that already has
	// an active courier. A parcel has zero or one active holder.
	ErrParcelAlreadyHeld = errors.New("parcel is already held by a courier")
)

// Parcel represents a shipped item being relayed between couriers.
// It is the aggregate root owning custody and delivery phase.
//
// Parcel follows these invariants:
//   - Must have a valid unique identifier
//   - Origin and destination coordinates are geocoded once at creation and
//     immutable for the life of the parcel
//   - Zero or one active holder: a parcel with no courier is available,
//     exactly one courier holds it otherwise
//   - Phase transitions follow the delivery state machine (see Phase)
//   - Can only be created through NewParcel or RestoreParcel
type Parcel struct {
	// id is the unique identifier for the parcel
	id kernel.UUID

	// origin is the declared route start, geocoded at creation
	origin kernel.GeoPoint

	// destination is the declared route end, geocoded at creation
	destination kernel.GeoPoint

	// payerClientID is the client who pre-paid the order for this parcel
	payerClientID kernel.UUID

	// custodyCourierID is the active holder's ID (nil if available)
	custodyCourierID *kernel.UUID

	// phase is the current delivery lifecycle state
	phase Phase

	// isPaid records the external billing action, independent of settlement
	isPaid bool

	// orderTotal is the pre-collected order total written by external
	// billing; zero while unknown. Settlement divides this amount, it never
	// computes it.
	orderTotal decimal.Decimal

	// isConstructed ensures the parcel was created via a constructor
	isConstructed bool
}

// NewParcel creates a new Parcel with validated route coordinates.
// The parcel starts in Pending phase with no courier and unpaid.
//
// Example:
//
//	origin, _ := kernel.NewGeoPoint(48.85, 2.35)
//	destination, _ := kernel.NewGeoPoint(45.75, 4.85)
//	p, err := parcel.NewParcel(kernel.NewUUID(), clientID, origin, destination)
//	if err != nil {
//	    // handle validation error
//	}
func NewParcel(
	id kernel.UUID,
	payerClientID kernel.UUID,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) (*Parcel, error) {
	p := &Parcel{
		phase:         Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setPayerClientID(payerClientID),
		p.setRoute(origin, destination),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParcel reconstructs a Parcel aggregate from persistent storage,
// preserving its custody, phase and billing state at the time of persistence.
func RestoreParcel(
	id kernel.UUID,
	payerClientID kernel.UUID,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
	phase Phase,
	custodyCourierID *kernel.UUID,
	isPaid bool,
	orderTotal decimal.Decimal,
) (*Parcel, error) {
	p := &Parcel{
		isConstructed: true,
		isPaid:        isPaid,
		orderTotal:    orderTotal,
	}

	if err := errors.Join(
		p.setID(id),
		p.setPayerClientID(payerClientID),
		p.setRoute(origin, destination),
		p.setPhase(phase),
		p.setCustody(custodyCourierID),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate ensures the Parcel instance was properly constructed.
// Returns ErrParcelIsNotConstructed otherwise. Call when reconstructing
// parcels from persistence to ensure data integrity.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}

	return nil
}

// IsEqual compares two parcels by their unique identifiers.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's unique identifier.
func (p *Parcel) ID() kernel.UUID {
	return p.id
}

// Origin returns the declared route start coordinates.
func (p *Parcel) Origin() kernel.GeoPoint {
	return p.origin
}

// Destination returns the declared route end coordinates.
func (p *Parcel) Destination() kernel.GeoPoint {
	return p.destination
}

// PayerClientID returns the client who pre-paid the order for this parcel.
func (p *Parcel) PayerClientID() kernel.UUID {
	return p.payerClientID
}

// Custody returns the active holder's courier ID.
// Returns nil if the parcel is available.
func (p *Parcel) Custody() *kernel.UUID {
	return p.custodyCourierID
}

// Phase returns the current delivery phase.
func (p *Parcel) Phase() Phase {
	return p.phase
}

// IsPaid reports whether the external billing action marked the parcel paid.
func (p *Parcel) IsPaid() bool {
	return p.isPaid
}

// TotalRouteKm returns the great-circle distance of the declared route.
// A zero-length route (same origin and destination) is legal and handled by
// the relay share computation as immediate full progress.
func (p *Parcel) TotalRouteKm() (float64, error) {
	return p.origin.DistanceKm(p.destination)
}

// Take assigns the first custody of the parcel to a courier.
//
// Fails with ErrParcelAlreadyHeld if the parcel already has an active holder.
// On success the courier becomes the holder; a Pending parcel advances to
// Collected, any later phase is left unchanged.
func (p *Parcel) Take(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if p.custodyCourierID != nil {
		return ErrParcelAlreadyHeld
	}

	if p.phase == Pending {
		newPhase, err := p.phase.TransitionTo(Collected)
		if err != nil {
			return err
		}
		p.phase = newPhase
	}

	p.custodyCourierID = &courierID
	return nil
}

// BeginRelay marks a handoff as initiated, moving the parcel to InRelay.
// Custody does not change until the receiving courier confirms.
func (p *Parcel) BeginRelay() error {
	newPhase, err := p.phase.TransitionTo(InRelay)
	if err != nil {
		return err
	}

	p.phase = newPhase
	return nil
}

// TransferCustody completes a confirmed handoff: the receiving courier
// becomes the holder and the parcel moves to InTransit.
func (p *Parcel) TransferCustody(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newPhase, err := p.phase.TransitionTo(InTransit)
	if err != nil {
		return err
	}

	p.phase = newPhase
	p.custodyCourierID = &courierID
	return nil
}

// MarkPhase performs a direct validated phase transition. It is used for
// external delivery-confirmation writes such as InTransit -> Delivered.
func (p *Parcel) MarkPhase(phase Phase) error {
	newPhase, err := p.phase.TransitionTo(phase)
	if err != nil {
		return err
	}

	p.phase = newPhase
	return nil
}

// MarkPaid records the external billing action on the parcel. Billing owns
// this write; no endpoint of this service applies it.
func (p *Parcel) MarkPaid() {
	p.isPaid = true
}

// OrderTotal returns the pre-collected order total known for the parcel.
// Zero means no external billing write has happened yet.
func (p *Parcel) OrderTotal() decimal.Decimal {
	return p.orderTotal
}

// HasKnownOrderTotal reports whether external billing has written a total.
func (p *Parcel) HasKnownOrderTotal() bool {
	return p.orderTotal.IsPositive()
}

// SetOrderTotal records the pre-collected total written by external billing.
// The amount must be positive.
func (p *Parcel) SetOrderTotal(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return settlement.ErrInvalidAmount
	}

	p.orderTotal = amount
	return nil
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setPayerClientID(payerClientID kernel.UUID) error {
	if err := payerClientID.Validate(); err != nil {
		return err
	}
	p.payerClientID = payerClientID
	return nil
}

func (p *Parcel) setRoute(origin kernel.GeoPoint, destination kernel.GeoPoint) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}

	p.origin = origin
	p.destination = destination
	return nil
}

func (p *Parcel) setPhase(phase Phase) error {
	if err := phase.Validate(); err != nil {
		return err
	}
	p.phase = phase
	return nil
}

func (p *Parcel) setCustody(courierID *kernel.UUID) error {
	if courierID == nil {
		p.custodyCourierID = nil
		return nil
	}

	if err := courierID.Validate(); err != nil {
		return err
	}

	id := *courierID
	p.custodyCourierID = &id
	return nil
}
