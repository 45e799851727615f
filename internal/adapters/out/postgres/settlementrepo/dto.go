// Package settlementrepo provides data transfer objects and mapping functions
// for settlement record persistence. This package implements the repository
// pattern for settlement records, handling the conversion between domain
// entities and database representations.
package settlementrepo

import (
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordDTO represents the database structure for persisting settlement
// records.
type RecordDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ParcelID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PayeeCourierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PayerClientID   uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status          string          `gorm:"type:varchar(32);not null;index"`
	ClientValidated bool            `gorm:"not null"`
}

// TableName specifies the database table name for settlement records.
// Overrides GORM's default naming convention to use "settlement_records".
func (RecordDTO) TableName() string {
	return "settlement_records"
}

// fromDomain converts a settlement record domain entity to its database
// representation.
func fromDomain(record *settlement.Record) RecordDTO {
	return RecordDTO{
		ID:              record.ID().Bytes(),
		ParcelID:        record.ParcelID().Bytes(),
		PayeeCourierID:  record.PayeeCourierID().Bytes(),
		PayerClientID:   record.PayerClientID().Bytes(),
		Amount:          record.Amount(),
		Status:          record.Status().String(),
		ClientValidated: record.ClientValidated(),
	}
}

// toDomain converts a database DTO to a settlement record domain entity
// using RestoreRecord.
func toDomain(dto RecordDTO) (*settlement.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return nil, err
	}

	payeeCourierID, err := kernel.UUIDFromBytes(dto.PayeeCourierID[:])
	if err != nil {
		return nil, err
	}

	payerClientID, err := kernel.UUIDFromBytes(dto.PayerClientID[:])
	if err != nil {
		return nil, err
	}

	status, err := settlement.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreRecord(
		id,
		parcelID,
		payeeCourierID,
		payerClientID,
		dto.Amount,
		status,
		dto.ClientValidated,
	)
}
