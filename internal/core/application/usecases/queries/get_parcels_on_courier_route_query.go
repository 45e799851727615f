package queries

import (
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

// ErrGetParcelsOnCourierRouteQueryIsNotConstructed is returned when a
// GetParcelsOnCourierRouteQuery was not created through its constructor.
var ErrGetParcelsOnCourierRouteQueryIsNotConstructed = errors.New(
	"GetParcelsOnCourierRouteQuery must be created via NewGetParcelsOnCourierRouteQuery constructor",
)

// GetParcelsOnCourierRouteQuery asks which undelivered parcels a courier
// could carry along one of their declared movements: the parcel's origin
// must sit near the movement's origin and its destination near the
// movement's destination.
type GetParcelsOnCourierRouteQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetParcelsOnCourierRouteQuery creates a route-matching query for a
// courier.
func NewGetParcelsOnCourierRouteQuery(courierID kernel.UUID) (GetParcelsOnCourierRouteQuery, error) {
	query := GetParcelsOnCourierRouteQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return GetParcelsOnCourierRouteQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetParcelsOnCourierRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelsOnCourierRouteQueryIsNotConstructed)
}

// CourierID returns the courier whose movements are matched against parcels.
func (q GetParcelsOnCourierRouteQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetParcelsOnCourierRouteQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	q.courierID = courierID
	return nil
}

// GetParcelsOnCourierRouteQueryResponse describes one parcel matching a
// courier's declared movement.
type GetParcelsOnCourierRouteQueryResponse struct {
	// ID identifies the parcel.
	ID kernel.UUID

	// Origin is the parcel's pickup point.
	Origin kernel.GeoPoint

	// Destination is the parcel's drop-off point.
	Destination kernel.GeoPoint

	// MovementID identifies the courier movement the parcel matched.
	MovementID kernel.UUID
}
