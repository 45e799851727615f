package queries

import (
	"errors"
	"math"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

// ErrGetParcelsNearCourierQueryIsNotConstructed is returned when a
// GetParcelsNearCourierQuery was not created through its constructor.
var ErrGetParcelsNearCourierQueryIsNotConstructed = errors.New(
	"GetParcelsNearCourierQuery must be created via NewGetParcelsNearCourierQuery constructor",
)

// GetParcelsNearCourierQuery asks which undelivered parcels currently sit
// within a radius of a courier's last reported location. A parcel's current
// location is its latest handoff point, or its origin when no handoff has
// happened yet.
type GetParcelsNearCourierQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	radiusKm  float64

	guard guard.ConstructorGuard
}

// NewGetParcelsNearCourierQuery creates a proximity query for a courier.
// The radius is expressed in kilometers and must be positive and finite.
func NewGetParcelsNearCourierQuery(courierID kernel.UUID, radiusKm float64) (GetParcelsNearCourierQuery, error) {
	query := GetParcelsNearCourierQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return GetParcelsNearCourierQuery{}, err
	}
	if err := query.setRadiusKm(radiusKm); err != nil {
		return GetParcelsNearCourierQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetParcelsNearCourierQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelsNearCourierQueryIsNotConstructed)
}

// CourierID returns the courier whose surroundings are searched.
func (q GetParcelsNearCourierQuery) CourierID() kernel.UUID {
	return q.courierID
}

// RadiusKm returns the search radius in kilometers.
func (q GetParcelsNearCourierQuery) RadiusKm() float64 {
	return q.radiusKm
}

func (q *GetParcelsNearCourierQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	q.courierID = courierID
	return nil
}

func (q *GetParcelsNearCourierQuery) setRadiusKm(radiusKm float64) error {
	if radiusKm <= 0 || math.IsInf(radiusKm, 0) || math.IsNaN(radiusKm) {
		return errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, math.MaxFloat64)
	}
	q.radiusKm = radiusKm
	return nil
}

// GetParcelsNearCourierQueryResponse describes one parcel near the courier.
type GetParcelsNearCourierQueryResponse struct {
	// ID identifies the parcel.
	ID kernel.UUID

	// CurrentLocation is the parcel's latest handoff point, or its origin
	// when the parcel has not been handed off yet.
	CurrentLocation kernel.GeoPoint

	// DistanceKm is the great-circle distance from the courier's last known
	// location to the parcel's current location.
	DistanceKm float64
}
