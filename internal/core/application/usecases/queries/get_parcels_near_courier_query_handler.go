package queries

import (
	"context"
	"database/sql"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetParcelsNearCourierQueryHandler finds undelivered parcels around a
// courier's last reported location. Distance filtering happens in Go using
// the kernel geometry so the read path and the domain agree on the math.
type GetParcelsNearCourierQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelsNearCourierQueryHandler creates a handler for courier
// proximity queries.
func NewGetParcelsNearCourierQueryHandler(db *gorm.DB) GetParcelsNearCourierQueryHandler {
	return GetParcelsNearCourierQueryHandler{db: db}
}

// Handle returns all undelivered parcels whose current location lies within
// the query radius (inclusive) of the courier's last known location. Parcels
// without usable coordinates are skipped. Fails with an
// errs.ObjectNotFoundError when the courier does not exist; a courier that
// has never reported a location yields an empty result.
func (h GetParcelsNearCourierQueryHandler) Handle(
	ctx context.Context,
	query GetParcelsNearCourierQuery,
) ([]GetParcelsNearCourierQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	courierLocation, known, err := h.courierLocation(ctx, query.CourierID())
	if err != nil {
		return nil, err
	}
	if !known {
		return []GetParcelsNearCourierQueryResponse{}, nil
	}

	latestPoints, err := h.latestHandoffPoints(ctx)
	if err != nil {
		return nil, err
	}

	parcels := make([]GetParcelsNearCourierQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			origin_lat,
			origin_lon
		FROM parcels
		WHERE phase <> 'Delivered'
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var originLat, originLon sql.NullFloat64

		if err = rows.Scan(&id, &originLat, &originLon); err != nil {
			return nil, err
		}

		parcelID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		current, ok := latestPoints[parcelID.String()]
		if !ok {
			if !originLat.Valid || !originLon.Valid {
				continue
			}
			current, err = kernel.NewGeoPoint(originLat.Float64, originLon.Float64)
			if err != nil {
				continue
			}
		}

		distanceKm, distErr := courierLocation.DistanceKm(current)
		if distErr != nil {
			continue
		}
		if distanceKm > query.RadiusKm() {
			continue
		}

		parcels = append(parcels, GetParcelsNearCourierQueryResponse{
			ID:              parcelID,
			CurrentLocation: current,
			DistanceKm:      distanceKm,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return parcels, nil
}

func (h GetParcelsNearCourierQueryHandler) courierLocation(
	ctx context.Context,
	courierID kernel.UUID,
) (kernel.GeoPoint, bool, error) {
	var row struct {
		ID          uuid.UUID
		LocationLat sql.NullFloat64
		LocationLon sql.NullFloat64
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			location_lat,
			location_lon
		FROM couriers
		WHERE id = ?
	`, courierID.Bytes()).Scan(&row).Error
	if err != nil {
		return kernel.GeoPoint{}, false, err
	}

	if row.ID == uuid.Nil {
		return kernel.GeoPoint{}, false, errs.NewObjectNotFoundError("courier", courierID.String())
	}

	if !row.LocationLat.Valid || !row.LocationLon.Valid {
		return kernel.GeoPoint{}, false, nil
	}

	location, err := kernel.NewGeoPoint(row.LocationLat.Float64, row.LocationLon.Float64)
	if err != nil {
		return kernel.GeoPoint{}, false, err
	}

	return location, true, nil
}

// latestHandoffPoints maps parcel IDs to the point of their most recent
// segment.
func (h GetParcelsNearCourierQueryHandler) latestHandoffPoints(
	ctx context.Context,
) (map[string]kernel.GeoPoint, error) {
	points := make(map[string]kernel.GeoPoint)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (parcel_id)
			parcel_id,
			point_lat,
			point_lon
		FROM relay_segments
		ORDER BY parcel_id, created_at DESC
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var parcelID uuid.UUID
		var pointLat, pointLon float64

		if err = rows.Scan(&parcelID, &pointLat, &pointLon); err != nil {
			return nil, err
		}

		id, idErr := kernel.UUIDFromBytes(parcelID[:])
		if idErr != nil {
			return nil, idErr
		}

		point, pointErr := kernel.NewGeoPoint(pointLat, pointLon)
		if pointErr != nil {
			return nil, pointErr
		}

		points[id.String()] = point
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}
