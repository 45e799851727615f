package ports

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/settlement"
)

// SettlementRepository defines the persistence contract for settlement
// records. The record set for a parcel is always the output of the most
// recent settlement run: recomputation replaces, it never appends on top of
// stale records.
type SettlementRepository interface {
	// ReplaceForParcel deletes all existing records for the parcel and
	// persists the given set in a single operation.
	ReplaceForParcel(ctx context.Context, parcelID kernel.UUID, records []*settlement.Record) error

	// GetByParcel retrieves the parcel's current settlement records.
	GetByParcel(ctx context.Context, parcelID kernel.UUID) ([]*settlement.Record, error)

	// Update persists changes to an individual record, written by the
	// external client-validation and gateway-result actions.
	Update(ctx context.Context, record *settlement.Record) error
}
