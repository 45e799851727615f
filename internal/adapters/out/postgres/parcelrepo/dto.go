// Package parcelrepo provides data transfer objects and mapping functions for parcel persistence.
// This package implements the repository pattern for the parcel domain aggregate, handling
// the conversion between domain entities and database representations.
package parcelrepo

import (
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParcelDTO represents the database structure for persisting parcel aggregates.
// The route endpoints are stored as flat lat/lon columns so read-side queries
// can filter on them without joins.
type ParcelDTO struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	PayerClientID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Origin           GeoPointDTO `gorm:"embedded;embeddedPrefix:origin_"`
	Destination      GeoPointDTO `gorm:"embedded;embeddedPrefix:destination_"`
	CustodyCourierID *uuid.UUID  `gorm:"type:uuid;index"`
	Phase            string      `gorm:"type:varchar(32);not null;index"`
	IsPaid           bool        `gorm:"not null"`
	OrderTotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName specifies the database table name for parcel entities.
// Overrides GORM's default naming convention to use "parcels".
func (ParcelDTO) TableName() string {
	return "parcels"
}

// GeoPointDTO represents embedded geographic coordinates.
type GeoPointDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lon float64 `gorm:"type:double precision;not null"`
}

// fromDomain converts a parcel domain aggregate to its database representation.
func fromDomain(parcel *parcel.Parcel) ParcelDTO {
	var custodyCourierID *uuid.UUID
	if id := parcel.Custody(); id != nil {
		raw := id.Bytes()
		custodyCourierID = &raw
	}

	return ParcelDTO{
		ID:            parcel.ID().Bytes(),
		PayerClientID: parcel.PayerClientID().Bytes(),
		Origin: GeoPointDTO{
			Lat: parcel.Origin().Lat(),
			Lon: parcel.Origin().Lon(),
		},
		Destination: GeoPointDTO{
			Lat: parcel.Destination().Lat(),
			Lon: parcel.Destination().Lon(),
		},
		CustodyCourierID: custodyCourierID,
		Phase:            parcel.Phase().String(),
		IsPaid:           parcel.IsPaid(),
		OrderTotal:       parcel.OrderTotal(),
	}
}

// toDomain converts a database DTO to a parcel domain aggregate.
// Reconstructs the complete aggregate state using RestoreParcel.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	payerClientID, err := kernel.UUIDFromBytes(dto.PayerClientID[:])
	if err != nil {
		return nil, err
	}

	origin, err := kernel.NewGeoPoint(dto.Origin.Lat, dto.Origin.Lon)
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewGeoPoint(dto.Destination.Lat, dto.Destination.Lon)
	if err != nil {
		return nil, err
	}

	phase, err := parcel.PhaseFromString(dto.Phase)
	if err != nil {
		return nil, err
	}

	var custodyCourierID *kernel.UUID
	if dto.CustodyCourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CustodyCourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		custodyCourierID = &cID
	}

	return parcel.RestoreParcel(
		id,
		payerClientID,
		origin,
		destination,
		phase,
		custodyCourierID,
		dto.IsPaid,
		dto.OrderTotal,
	)
}
