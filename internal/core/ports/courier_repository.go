package ports

import (
	"context"

	"relay/internal/core/domain/model/courier"
	"relay/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates,
// including their last known position and declared movements.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier with all its movements by unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)
}
