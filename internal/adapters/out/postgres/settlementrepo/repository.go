package settlementrepo

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/settlement"

	"gorm.io/gorm"
)

// GormSettlementRepository implements SettlementRepository using GORM.
type GormSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSettlementRepository creates a new GORM settlement repository.
func NewGormSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormSettlementRepository {
	return &GormSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

// ReplaceForParcel deletes the parcel's existing records and persists the
// given set. Callers run it inside a unit of work so the delete and the
// inserts land atomically.
func (r *GormSettlementRepository) ReplaceForParcel(
	ctx context.Context,
	parcelID kernel.UUID,
	records []*settlement.Record,
) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Delete(&RecordDTO{}).Error
	if err != nil {
		return err
	}

	for _, record := range records {
		dto := fromDomain(record)
		if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
			return err
		}

		r.tracker.TrackAggregate(record.ID(), record)
	}

	return nil
}

// GetByParcel retrieves the parcel's current settlement records.
func (r *GormSettlementRepository) GetByParcel(
	ctx context.Context,
	parcelID kernel.UUID,
) ([]*settlement.Record, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RecordDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "parcel_id = ?", parcelID.Bytes()).Error; err != nil {
		return nil, err
	}

	records := make([]*settlement.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Update persists changes to an individual record.
func (r *GormSettlementRepository) Update(ctx context.Context, record *settlement.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}
