package commands

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/settlement"
	"relay/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrRecomputeSettlementCommandIsNotConstructed is returned when a
// RecomputeSettlementCommand was not created through its constructor.
var ErrRecomputeSettlementCommandIsNotConstructed = errors.New(
	"RecomputeSettlementCommand must be created via NewRecomputeSettlementCommand constructor",
)

// RecomputeSettlementCommand requests a full recomputation of the settlement
// records for a parcel, dividing the given pre-collected total among the
// couriers in the relay chain.
//
// Example:
//
//	total := decimal.NewFromInt(100)
//	cmd, err := NewRecomputeSettlementCommand(parcelID, total, clientID)
//	if err != nil {
//	    return fmt.Errorf("invalid settlement request: %w", err)
//	}
//	records, err := handler.Handle(ctx, cmd)
type RecomputeSettlementCommand struct { //nolint:recvcheck //using for validation
	parcelID      kernel.UUID
	totalAmount   decimal.Decimal
	payerClientID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRecomputeSettlementCommand creates a settlement recompute command.
// Fails with settlement.ErrInvalidAmount for a non-positive total.
func NewRecomputeSettlementCommand(
	parcelID kernel.UUID,
	totalAmount decimal.Decimal,
	payerClientID kernel.UUID,
) (RecomputeSettlementCommand, error) {
	cmd := RecomputeSettlementCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setTotalAmount(totalAmount),
		cmd.setPayerClientID(payerClientID),
	); err != nil {
		return RecomputeSettlementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecomputeSettlementCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeSettlementCommandIsNotConstructed)
}

// ParcelID returns the parcel to settle.
func (c RecomputeSettlementCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// TotalAmount returns the pre-collected total to divide.
func (c RecomputeSettlementCommand) TotalAmount() decimal.Decimal {
	return c.totalAmount
}

// PayerClientID returns the client whose payment is split.
func (c RecomputeSettlementCommand) PayerClientID() kernel.UUID {
	return c.payerClientID
}

func (c *RecomputeSettlementCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *RecomputeSettlementCommand) setTotalAmount(totalAmount decimal.Decimal) error {
	if !totalAmount.IsPositive() {
		return settlement.ErrInvalidAmount
	}
	c.totalAmount = totalAmount
	return nil
}

func (c *RecomputeSettlementCommand) setPayerClientID(payerClientID kernel.UUID) error {
	if err := payerClientID.Validate(); err != nil {
		return err
	}
	c.payerClientID = payerClientID
	return nil
}
