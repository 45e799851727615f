// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"relay/internal/core/domain/model/courier"
	"relay/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The last reported location is nullable: a freshly registered courier has no
// position until their first report.
type CourierDTO struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name        string        `gorm:"type:varchar(255);not null"`
	LocationLat *float64      `gorm:"type:double precision"`
	LocationLon *float64      `gorm:"type:double precision"`
	Movements   []MovementDTO `gorm:"foreignKey:CourierID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

// MovementDTO represents the database structure for persisting declared
// courier movements. Links to courier via foreign key.
type MovementDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OriginLat      float64   `gorm:"type:double precision;not null"`
	OriginLon      float64   `gorm:"type:double precision;not null"`
	DestinationLat float64   `gorm:"type:double precision;not null"`
	DestinationLon float64   `gorm:"type:double precision;not null"`
	Active         bool      `gorm:"not null;index"`
}

// TableName specifies the database table name for movement entities.
// Overrides GORM's default naming convention to use "movements".
func (MovementDTO) TableName() string {
	return "movements"
}

// fromDomain converts a courier domain aggregate to its database representation.
// Maps all aggregate entities including declared movements.
func fromDomain(courier *courier.Courier) CourierDTO {
	courierID := courier.ID().Bytes()
	movements := make([]MovementDTO, 0, len(courier.Movements()))

	for _, m := range courier.Movements() {
		movements = append(movements, MovementDTO{
			ID:             m.ID().Bytes(),
			CourierID:      courierID,
			OriginLat:      m.Origin().Lat(),
			OriginLon:      m.Origin().Lon(),
			DestinationLat: m.Destination().Lat(),
			DestinationLon: m.Destination().Lon(),
			Active:         m.IsActive(),
		})
	}

	var locationLat, locationLon *float64
	if loc := courier.Location(); loc != nil {
		lat := loc.Lat()
		lon := loc.Lon()
		locationLat = &lat
		locationLon = &lon
	}

	return CourierDTO{
		ID:          courierID,
		Name:        courier.Name(),
		LocationLat: locationLat,
		LocationLon: locationLon,
		Movements:   movements,
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
// Reconstructs the complete aggregate including all movements using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLon != nil {
		loc, locErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLon)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	movements := make([]*courier.Movement, 0, len(dto.Movements))
	for _, mDto := range dto.Movements {
		m, mErr := movementToDomain(mDto)
		if mErr != nil {
			return nil, mErr
		}
		movements = append(movements, m)
	}

	return courier.RestoreCourier(id, dto.Name, location, movements)
}

// movementToDomain converts a movement DTO to its domain entity.
// Uses RestoreMovement to reconstruct the entity with its persisted state.
func movementToDomain(dto MovementDTO) (*courier.Movement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	origin, err := kernel.NewGeoPoint(dto.OriginLat, dto.OriginLon)
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewGeoPoint(dto.DestinationLat, dto.DestinationLon)
	if err != nil {
		return nil, err
	}

	return courier.RestoreMovement(id, origin, destination, dto.Active)
}
