package settlement

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record instance was not
	// created through NewRecord or RestoreRecord.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord constructor")

	// ErrInvalidAmount is returned when a non-positive total amount is passed
	// to the settlement engine.
	ErrInvalidAmount = errors.New("settlement amount must be positive")
)

// Record is a computed payment-owed entry for one courier on one parcel.
//
// Amounts are fixed-point decimals in whole currency units; floating point is
// never used for money. The set of records for a parcel is replaced wholesale
// on every settlement recompute; individual records are only mutated later by
// external client-validation or courier-withdrawal actions.
type Record struct {
	// id is the unique identifier for the record
	id kernel.UUID

	// parcelID is the parcel this settlement belongs to
	parcelID kernel.UUID

	// payeeCourierID is the courier owed the amount
	payeeCourierID kernel.UUID

	// payerClientID is the client whose pre-collected payment is split
	payerClientID kernel.UUID

	// amount is the owed amount in whole currency units
	amount decimal.Decimal

	// status is the record's payout lifecycle state
	status Status

	// clientValidated is set when the paying client confirmed the leg
	clientValidated bool

	// isConstructed ensures the record was created via a constructor
	isConstructed bool
}

// NewRecord creates a settlement record for a courier's share of a parcel's
// pre-collected payment. The amount must be positive.
func NewRecord(
	id kernel.UUID,
	parcelID kernel.UUID,
	payeeCourierID kernel.UUID,
	payerClientID kernel.UUID,
	amount decimal.Decimal,
	status Status,
	clientValidated bool,
) (*Record, error) {
	r := &Record{
		isConstructed:   true,
		clientValidated: clientValidated,
	}

	if err := errors.Join(
		r.setID(id),
		r.setParcelID(parcelID),
		r.setPayeeCourierID(payeeCourierID),
		r.setPayerClientID(payerClientID),
		r.setAmount(amount),
		r.setStatus(status),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRecord reconstructs a Record from persistent storage.
func RestoreRecord(
	id kernel.UUID,
	parcelID kernel.UUID,
	payeeCourierID kernel.UUID,
	payerClientID kernel.UUID,
	amount decimal.Decimal,
	status Status,
	clientValidated bool,
) (*Record, error) {
	return NewRecord(id, parcelID, payeeCourierID, payerClientID, amount, status, clientValidated)
}

// Validate ensures the Record instance was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}

	return nil
}

// IsEqual compares two records by their unique identifiers.
func (r *Record) IsEqual(other *Record) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the record's unique identifier.
func (r *Record) ID() kernel.UUID {
	return r.id
}

// ParcelID returns the parcel this settlement belongs to.
func (r *Record) ParcelID() kernel.UUID {
	return r.parcelID
}

// PayeeCourierID returns the courier owed the amount.
func (r *Record) PayeeCourierID() kernel.UUID {
	return r.payeeCourierID
}

// PayerClientID returns the client whose payment is split.
func (r *Record) PayerClientID() kernel.UUID {
	return r.payerClientID
}

// Amount returns the owed amount in whole currency units.
func (r *Record) Amount() decimal.Decimal {
	return r.amount
}

// Status returns the record's payout lifecycle state.
func (r *Record) Status() Status {
	return r.status
}

// ClientValidated reports whether the paying client confirmed the leg.
func (r *Record) ClientValidated() bool {
	return r.clientValidated
}

// MarkClientValidated records the external client-validation action.
func (r *Record) MarkClientValidated() {
	r.clientValidated = true
}

// MarkPaid records a successful payout by the external gateway.
func (r *Record) MarkPaid() error {
	return r.setStatus(StatusPaid)
}

// MarkFailed records a failed payout by the external gateway.
func (r *Record) MarkFailed() error {
	return r.setStatus(StatusFailed)
}

func (r *Record) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Record) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	r.parcelID = parcelID
	return nil
}

func (r *Record) setPayeeCourierID(payeeCourierID kernel.UUID) error {
	if err := payeeCourierID.Validate(); err != nil {
		return err
	}
	r.payeeCourierID = payeeCourierID
	return nil
}

func (r *Record) setPayerClientID(payerClientID kernel.UUID) error {
	if err := payerClientID.Validate(); err != nil {
		return err
	}
	r.payerClientID = payerClientID
	return nil
}

func (r *Record) setAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", ErrInvalidAmount)
	}
	r.amount = amount
	return nil
}

func (r *Record) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}
