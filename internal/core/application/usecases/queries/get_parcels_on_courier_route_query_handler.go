package queries

import (
	"context"
	"database/sql"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// routeCorridorKm is how far a parcel's endpoints may sit from a movement's
// endpoints before the parcel stops counting as "on the route".
const routeCorridorKm = 20.0

// GetParcelsOnCourierRouteQueryHandler matches undelivered parcels against a
// courier's active movements.
type GetParcelsOnCourierRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelsOnCourierRouteQueryHandler creates a handler for route
// matching queries.
func NewGetParcelsOnCourierRouteQueryHandler(db *gorm.DB) GetParcelsOnCourierRouteQueryHandler {
	return GetParcelsOnCourierRouteQueryHandler{db: db}
}

type movementRow struct {
	id          kernel.UUID
	origin      kernel.GeoPoint
	destination kernel.GeoPoint
}

// Handle returns the undelivered parcels whose origin lies within the route
// corridor of an active movement's origin and whose destination lies within
// the corridor of that movement's destination. Each parcel is reported at
// most once, against the first movement it matches. Fails with an
// errs.ObjectNotFoundError when the courier does not exist.
func (h GetParcelsOnCourierRouteQueryHandler) Handle(
	ctx context.Context,
	query GetParcelsOnCourierRouteQuery,
) ([]GetParcelsOnCourierRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := h.ensureCourierExists(ctx, query.CourierID()); err != nil {
		return nil, err
	}

	movements, err := h.activeMovements(ctx, query.CourierID())
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return []GetParcelsOnCourierRouteQueryResponse{}, nil
	}

	parcels := make([]GetParcelsOnCourierRouteQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			origin_lat,
			origin_lon,
			destination_lat,
			destination_lon
		FROM parcels
		WHERE phase <> 'Delivered'
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var originLat, originLon, destinationLat, destinationLon float64

		err = rows.Scan(&id, &originLat, &originLon, &destinationLat, &destinationLon)
		if err != nil {
			return nil, err
		}

		parcelID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		origin, originErr := kernel.NewGeoPoint(originLat, originLon)
		if originErr != nil {
			continue
		}

		destination, destinationErr := kernel.NewGeoPoint(destinationLat, destinationLon)
		if destinationErr != nil {
			continue
		}

		for _, movement := range movements {
			nearOrigin, nearErr := origin.WithinRadiusKm(movement.origin, routeCorridorKm)
			if nearErr != nil || !nearOrigin {
				continue
			}

			nearDestination, nearErr := destination.WithinRadiusKm(movement.destination, routeCorridorKm)
			if nearErr != nil || !nearDestination {
				continue
			}

			parcels = append(parcels, GetParcelsOnCourierRouteQueryResponse{
				ID:          parcelID,
				Origin:      origin,
				Destination: destination,
				MovementID:  movement.id,
			})
			break
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return parcels, nil
}

func (h GetParcelsOnCourierRouteQueryHandler) ensureCourierExists(
	ctx context.Context,
	courierID kernel.UUID,
) error {
	var row struct {
		ID uuid.UUID
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT id FROM couriers WHERE id = ?
	`, courierID.Bytes()).Scan(&row).Error
	if err != nil {
		return err
	}

	if row.ID == uuid.Nil {
		return errs.NewObjectNotFoundError("courier", courierID.String())
	}

	return nil
}

func (h GetParcelsOnCourierRouteQueryHandler) activeMovements(
	ctx context.Context,
	courierID kernel.UUID,
) ([]movementRow, error) {
	movements := make([]movementRow, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			origin_lat,
			origin_lon,
			destination_lat,
			destination_lon
		FROM movements
		WHERE courier_id = ? AND active
		ORDER BY id
	`, courierID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var originLat, originLon sql.NullFloat64
		var destinationLat, destinationLon sql.NullFloat64

		err = rows.Scan(&id, &originLat, &originLon, &destinationLat, &destinationLon)
		if err != nil {
			return nil, err
		}

		if !originLat.Valid || !originLon.Valid || !destinationLat.Valid || !destinationLon.Valid {
			continue
		}

		movementID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		origin, originErr := kernel.NewGeoPoint(originLat.Float64, originLon.Float64)
		if originErr != nil {
			continue
		}

		destination, destinationErr := kernel.NewGeoPoint(destinationLat.Float64, destinationLon.Float64)
		if destinationErr != nil {
			continue
		}

		movements = append(movements, movementRow{
			id:          movementID,
			origin:      origin,
			destination: destination,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}
