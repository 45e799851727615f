package services

import (
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/core/domain/model/settlement"

	"github.com/shopspring/decimal"
)

// sharePercentBase converts integer share percentages into amount fractions.
var sharePercentBase = decimal.NewFromInt(100)

// SettlementPlanner is a domain service that divides a parcel's pre-collected
// payment proportionally among the couriers in its relay chain.
//
// Business rules:
//   - Each segment with a positive outgoing share yields a Completed,
//     client-validated record for the outgoing courier.
//   - The last segment of the chain with a positive incoming share yields an
//     additional Pending, unvalidated record for the incoming courier: their
//     provisional share for delivering the rest of the route.
//   - Amounts are rounded per record to whole currency units; the planner
//     does not redistribute the rounding remainder, so the record sum may
//     drift from the total by a unit. This drift is accepted behavior.
//
// The planner is pure: it never touches storage. Callers replace the
// parcel's previous record set wholesale with the planner's output, which
// makes the recompute idempotent.
type SettlementPlanner struct{}

// NewSettlementPlanner creates a new SettlementPlanner instance.
func NewSettlementPlanner() SettlementPlanner {
	return SettlementPlanner{}
}

// Plan computes the settlement records for a parcel's relay chain.
//
// Parameters:
//   - parcelID: the parcel whose payment is divided
//   - payerClientID: the client who pre-paid the total
//   - segments: the parcel's full segment chain ordered by creation time
//   - totalAmount: the pre-collected total to divide (whole currency units)
//
// Returns settlement.ErrInvalidAmount for a non-positive total. An empty
// chain yields an empty plan; the caller decides whether that is a no-op.
func (p SettlementPlanner) Plan(
	parcelID kernel.UUID,
	payerClientID kernel.UUID,
	segments []*relay.Segment,
	totalAmount decimal.Decimal,
) ([]*settlement.Record, error) {
	if !totalAmount.IsPositive() {
		return nil, settlement.ErrInvalidAmount
	}

	if err := parcelID.Validate(); err != nil {
		return nil, err
	}
	if err := payerClientID.Validate(); err != nil {
		return nil, err
	}

	records := make([]*settlement.Record, 0, len(segments)+1)
	for i, segment := range segments {
		if err := segment.Validate(); err != nil {
			return nil, err
		}

		if segment.OutgoingShare() > 0 {
			record, err := settlement.NewRecord(
				kernel.NewUUID(),
				parcelID,
				segment.FromCourierID(),
				payerClientID,
				shareAmount(totalAmount, segment.OutgoingShare()),
				settlement.StatusCompleted,
				true,
			)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}

		isLast := i == len(segments)-1
		if isLast && segment.IncomingShare() > 0 {
			record, err := settlement.NewRecord(
				kernel.NewUUID(),
				parcelID,
				segment.ToCourierID(),
				payerClientID,
				shareAmount(totalAmount, segment.IncomingShare()),
				settlement.StatusPending,
				false,
			)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// shareAmount converts a share percentage of the total into a whole-unit
// amount, rounded half away from zero.
func shareAmount(total decimal.Decimal, sharePercent int) decimal.Decimal {
	return total.Mul(decimal.NewFromInt(int64(sharePercent))).Div(sharePercentBase).Round(0)
}
