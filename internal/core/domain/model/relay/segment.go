package relay

import (
	"errors"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
)

var (
	// ErrSegmentIsNotConstructed is returned when a Segment instance was not
	// created through NewSegment or RestoreSegment.
	ErrSegmentIsNotConstructed = errors.New("Segment must be created via NewSegment or RestoreSegment constructor")

	// ErrNotCurrentHolder is returned when a courier who does not hold the
	// parcel attempts to initiate a handoff.
	ErrNotCurrentHolder = errors.New("courier is not the current holder of the parcel")

	// ErrHandoffToSelf is returned when the outgoing and incoming courier of
	// a handoff are the same.
	ErrHandoffToSelf = errors.New("handoff must involve two distinct couriers")

	// ErrInvalidCode is returned when confirmation is rejected: no open
	// segment matches the parcel, courier and code combination.
	ErrInvalidCode = errors.New("no open handoff matches the confirmation code")
)

// Segment represents one handoff attempt for a parcel: the transfer of
// custody from one courier to another at a physical location.
//
// Segments are owned by the parcel, ordered by creation time and append-only;
// the only mutable field is the confirmed flag. The progress shares are
// frozen at the moment of the segment's own creation, based on the state of
// prior segments only, and are never adjusted retroactively when later
// segments are added.
type Segment struct {
	// id is the unique identifier for the segment
	id kernel.UUID

	// parcelID is the owning parcel
	parcelID kernel.UUID

	// fromCourierID is the outgoing courier (the holder at initiation)
	fromCourierID kernel.UUID

	// toCourierID is the incoming courier who must confirm receipt
	toCourierID kernel.UUID

	// address is the free-text handoff meeting point
	address string

	// point is the geocoded handoff location
	point kernel.GeoPoint

	// code is the confirmation secret relayed out-of-band
	code ConfirmationCode

	// confirmed is set once the incoming courier presents the code
	confirmed bool

	// shares are the progress percentages frozen at creation
	shares Shares

	// createdAt orders the segment within the parcel's chain
	createdAt time.Time

	// isConstructed ensures the segment was created via a constructor
	isConstructed bool
}

// NewSegment creates an unconfirmed handoff segment.
// The shares must have been computed from the parcel's prior chain via
// ComputeShares before calling this constructor.
func NewSegment(
	id kernel.UUID,
	parcelID kernel.UUID,
	fromCourierID kernel.UUID,
	toCourierID kernel.UUID,
	address string,
	point kernel.GeoPoint,
	code ConfirmationCode,
	shares Shares,
	createdAt time.Time,
) (*Segment, error) {
	s := &Segment{
		isConstructed: true,
		createdAt:     createdAt,
	}

	if err := errors.Join(
		s.setID(id),
		s.setParcelID(parcelID),
		s.setCouriers(fromCourierID, toCourierID),
		s.setAddress(address),
		s.setPoint(point),
		s.setCode(code),
		s.setShares(shares),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreSegment reconstructs a Segment from persistent storage, including
// its confirmed flag.
func RestoreSegment(
	id kernel.UUID,
	parcelID kernel.UUID,
	fromCourierID kernel.UUID,
	toCourierID kernel.UUID,
	address string,
	point kernel.GeoPoint,
	code ConfirmationCode,
	shares Shares,
	confirmed bool,
	createdAt time.Time,
) (*Segment, error) {
	s, err := NewSegment(id, parcelID, fromCourierID, toCourierID, address, point, code, shares, createdAt)
	if err != nil {
		return nil, err
	}

	s.confirmed = confirmed
	return s, nil
}

// Validate ensures the Segment instance was properly constructed.
func (s *Segment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSegmentIsNotConstructed
	}

	return nil
}

// IsEqual compares two segments by their unique identifiers.
func (s *Segment) IsEqual(other *Segment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the segment's unique identifier.
func (s *Segment) ID() kernel.UUID {
	return s.id
}

// ParcelID returns the owning parcel's identifier.
func (s *Segment) ParcelID() kernel.UUID {
	return s.parcelID
}

// FromCourierID returns the outgoing courier's identifier.
func (s *Segment) FromCourierID() kernel.UUID {
	return s.fromCourierID
}

// ToCourierID returns the incoming courier's identifier.
func (s *Segment) ToCourierID() kernel.UUID {
	return s.toCourierID
}

// Address returns the free-text handoff address.
func (s *Segment) Address() string {
	return s.address
}

// Point returns the geocoded handoff location.
func (s *Segment) Point() kernel.GeoPoint {
	return s.point
}

// Code returns the confirmation code shown to the outgoing courier.
func (s *Segment) Code() ConfirmationCode {
	return s.code
}

// Confirmed reports whether the incoming courier has confirmed receipt.
func (s *Segment) Confirmed() bool {
	return s.confirmed
}

// OutgoingShare returns the route percentage credited to the outgoing courier.
func (s *Segment) OutgoingShare() int {
	return s.shares.Outgoing
}

// IncomingShare returns the provisional route percentage for the incoming
// courier, assuming they deliver the rest of the route directly.
func (s *Segment) IncomingShare() int {
	return s.shares.Incoming
}

// CreatedAt returns the segment's creation timestamp.
func (s *Segment) CreatedAt() time.Time {
	return s.createdAt
}

// MatchesConfirmation reports whether this segment is the open segment the
// given courier can confirm with the typed code. A segment that is already
// confirmed never matches.
func (s *Segment) MatchesConfirmation(toCourierID kernel.UUID, typedCode string) bool {
	return !s.confirmed && s.toCourierID.IsEqual(toCourierID) && s.code.Matches(typedCode)
}

// Confirm closes the segment. Fails with ErrInvalidCode if the segment is
// already confirmed.
func (s *Segment) Confirm() error {
	if s.confirmed {
		return ErrInvalidCode
	}

	s.confirmed = true
	return nil
}

func (s *Segment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Segment) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	s.parcelID = parcelID
	return nil
}

func (s *Segment) setCouriers(fromCourierID kernel.UUID, toCourierID kernel.UUID) error {
	if err := errors.Join(fromCourierID.Validate(), toCourierID.Validate()); err != nil {
		return err
	}

	if fromCourierID.IsEqual(toCourierID) {
		return ErrHandoffToSelf
	}

	s.fromCourierID = fromCourierID
	s.toCourierID = toCourierID
	return nil
}

func (s *Segment) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	s.address = address
	return nil
}

func (s *Segment) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	s.point = point
	return nil
}

func (s *Segment) setCode(code ConfirmationCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	s.code = code
	return nil
}

func (s *Segment) setShares(shares Shares) error {
	if err := shares.Validate(); err != nil {
		return err
	}
	s.shares = shares
	return nil
}
