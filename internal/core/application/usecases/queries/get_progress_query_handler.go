package queries

import (
	"context"
	"database/sql"
	"errors"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetProgressQueryHandler computes route progress for a parcel from its most
// recent handoff segment.
type GetProgressQueryHandler struct {
	db *gorm.DB
}

// NewGetProgressQueryHandler creates a handler for progress queries.
func NewGetProgressQueryHandler(db *gorm.DB) GetProgressQueryHandler {
	return GetProgressQueryHandler{db: db}
}

// Handle reads the parcel's declared route and its latest segment, then
// derives (progress, remaining) against the total route distance.
// Fails with an errs.ObjectNotFoundError if the parcel does not exist or has
// no segments yet.
func (h GetProgressQueryHandler) Handle(
	ctx context.Context,
	query GetProgressQuery,
) (GetProgressQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetProgressQueryResponse{}, err
	}

	var route struct {
		OriginLat      sql.NullFloat64
		OriginLon      sql.NullFloat64
		DestinationLat sql.NullFloat64
		DestinationLon sql.NullFloat64
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			origin_lat,
			origin_lon,
			destination_lat,
			destination_lon
		FROM parcels
		WHERE id = ?
	`, query.ParcelID().Bytes()).Scan(&route).Error
	if err != nil {
		return GetProgressQueryResponse{}, err
	}

	// Raw+Scan leaves the struct zeroed when no row matches.
	if !route.OriginLat.Valid {
		return GetProgressQueryResponse{}, errs.NewObjectNotFoundError("parcel", query.ParcelID().String())
	}

	var row struct {
		PointLat sql.NullFloat64
		PointLon sql.NullFloat64
	}

	err = h.db.WithContext(ctx).Raw(`
		SELECT
			point_lat,
			point_lon
		FROM relay_segments
		WHERE parcel_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, query.ParcelID().Bytes()).Scan(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetProgressQueryResponse{}, errs.NewObjectNotFoundError("parcel segments", query.ParcelID().String())
		}
		return GetProgressQueryResponse{}, err
	}

	if !row.PointLat.Valid || !row.PointLon.Valid {
		return GetProgressQueryResponse{}, errs.NewObjectNotFoundError("parcel segments", query.ParcelID().String())
	}

	origin, err := kernel.NewGeoPoint(route.OriginLat.Float64, route.OriginLon.Float64)
	if err != nil {
		return GetProgressQueryResponse{}, err
	}

	destination, err := kernel.NewGeoPoint(route.DestinationLat.Float64, route.DestinationLon.Float64)
	if err != nil {
		return GetProgressQueryResponse{}, err
	}

	lastHandoff, err := kernel.NewGeoPoint(row.PointLat.Float64, row.PointLon.Float64)
	if err != nil {
		return GetProgressQueryResponse{}, err
	}

	progress, err := relay.ChainProgress(origin, destination, lastHandoff)
	if err != nil {
		return GetProgressQueryResponse{}, err
	}

	return GetProgressQueryResponse{
		CurrentLegProgress:  progress.CurrentLegProgress,
		RemainingProgress:   progress.RemainingProgress,
		LastHandoffLocation: progress.LastHandoffLocation,
	}, nil
}
