package ports

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/relay"
)

// SegmentRepository defines the persistence contract for the relay ledger.
// The ledger is append-only except for the confirmed flag; all reads return
// segments ordered by creation time.
type SegmentRepository interface {
	// Add appends a new handoff segment to the parcel's chain.
	Add(ctx context.Context, segment *relay.Segment) error

	// Update persists the confirmed flag of an existing segment.
	Update(ctx context.Context, segment *relay.Segment) error

	// GetByParcel retrieves the parcel's full segment chain ordered by
	// creation time, oldest first.
	GetByParcel(ctx context.Context, parcelID kernel.UUID) ([]*relay.Segment, error)

	// GetOpenByParcel retrieves only the parcel's unconfirmed segments
	// ordered by creation time. Confirmation-code uniqueness is scoped to
	// this set, not globally.
	GetOpenByParcel(ctx context.Context, parcelID kernel.UUID) ([]*relay.Segment, error)
}
