// Package ports defines the contracts between the relay core and its
// infrastructure collaborators: persistence, geocoding and the payment
// gateway feed. These interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves a parcel by its unique identifier.
	// Returns an errs.ObjectNotFoundError when the parcel does not exist.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetAllUndelivered retrieves every parcel that has not reached the
	// Delivered phase. Used by the settlement reconciliation job.
	GetAllUndelivered(ctx context.Context) ([]*parcel.Parcel, error)
}
