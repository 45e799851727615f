// Package relayrepo provides data transfer objects and mapping functions for
// the relay segment ledger. This package implements the repository pattern
// for handoff segments, handling the conversion between domain entities and
// database representations.
package relayrepo

import (
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/relay"

	"github.com/google/uuid"
)

// SegmentDTO represents the database structure for persisting handoff
// segments. The handoff point is stored as flat lat/lon columns so the
// read-side progress query can scan it directly.
type SegmentDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParcelID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FromCourierID uuid.UUID `gorm:"type:uuid;not null"`
	ToCourierID   uuid.UUID `gorm:"type:uuid;not null"`
	Address       string    `gorm:"type:varchar(512);not null"`
	PointLat      float64   `gorm:"type:double precision;not null"`
	PointLon      float64   `gorm:"type:double precision;not null"`
	Code          string    `gorm:"type:varchar(16);not null"`
	Confirmed     bool      `gorm:"not null"`
	OutgoingShare int       `gorm:"type:int;not null"`
	IncomingShare int       `gorm:"type:int;not null"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for segment entities.
// Overrides GORM's default naming convention to use "relay_segments".
func (SegmentDTO) TableName() string {
	return "relay_segments"
}

// fromDomain converts a segment domain entity to its database representation.
func fromDomain(segment *relay.Segment) SegmentDTO {
	return SegmentDTO{
		ID:            segment.ID().Bytes(),
		ParcelID:      segment.ParcelID().Bytes(),
		FromCourierID: segment.FromCourierID().Bytes(),
		ToCourierID:   segment.ToCourierID().Bytes(),
		Address:       segment.Address(),
		PointLat:      segment.Point().Lat(),
		PointLon:      segment.Point().Lon(),
		Code:          segment.Code().String(),
		Confirmed:     segment.Confirmed(),
		OutgoingShare: segment.OutgoingShare(),
		IncomingShare: segment.IncomingShare(),
		CreatedAt:     segment.CreatedAt(),
	}
}

// toDomain converts a database DTO to a segment domain entity using
// RestoreSegment.
func toDomain(dto SegmentDTO) (*relay.Segment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return nil, err
	}

	fromCourierID, err := kernel.UUIDFromBytes(dto.FromCourierID[:])
	if err != nil {
		return nil, err
	}

	toCourierID, err := kernel.UUIDFromBytes(dto.ToCourierID[:])
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(dto.PointLat, dto.PointLon)
	if err != nil {
		return nil, err
	}

	code, err := relay.ConfirmationCodeFromString(dto.Code)
	if err != nil {
		return nil, err
	}

	return relay.RestoreSegment(
		id,
		parcelID,
		fromCourierID,
		toCourierID,
		dto.Address,
		point,
		code,
		relay.Shares{Outgoing: dto.OutgoingShare, Incoming: dto.IncomingShare},
		dto.Confirmed,
		dto.CreatedAt,
	)
}
