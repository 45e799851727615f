// Package queries contains read-side operations in the CQRS architecture.
// Query handlers read the database directly, bypassing the aggregate
// repositories, and reuse the kernel geometry for all distance math.
package queries

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

// ErrGetProgressQueryIsNotConstructed is returned when a GetProgressQuery
// was not created through its constructor.
var ErrGetProgressQueryIsNotConstructed = errors.New(
	"GetProgressQuery must be created via NewGetProgressQuery constructor",
)

// GetProgressQuery asks how far along its declared route a parcel has moved,
// judged by its most recent handoff point regardless of confirmation state.
type GetProgressQuery struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetProgressQuery creates a progress query for a parcel.
func NewGetProgressQuery(parcelID kernel.UUID) (GetProgressQuery, error) {
	query := GetProgressQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setParcelID(parcelID); err != nil {
		return GetProgressQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetProgressQueryIsNotConstructed)
}

// ParcelID returns the parcel whose progress is requested.
func (q GetProgressQuery) ParcelID() kernel.UUID {
	return q.parcelID
}

func (q *GetProgressQuery) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	q.parcelID = parcelID
	return nil
}

// GetProgressQueryResponse reports a parcel's route progress.
type GetProgressQueryResponse struct {
	// CurrentLegProgress is the rounded percentage of the route covered from
	// the origin to the latest handoff point.
	CurrentLegProgress int

	// RemainingProgress is 100 minus CurrentLegProgress.
	RemainingProgress int

	// LastHandoffLocation is the latest segment's geocoded handoff point.
	LastHandoffLocation kernel.GeoPoint
}
