package relayrepo

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/relay"

	"gorm.io/gorm"
)

// GormSegmentRepository implements SegmentRepository using GORM.
type GormSegmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSegmentRepository creates a new GORM segment repository.
func NewGormSegmentRepository(db *gorm.DB, tracker aggregateTracker) *GormSegmentRepository {
	return &GormSegmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add appends a new segment to the parcel's chain.
func (r *GormSegmentRepository) Add(ctx context.Context, segment *relay.Segment) error {
	if err := segment.Validate(); err != nil {
		return err
	}

	dto := fromDomain(segment)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(segment.ID(), segment)
	return nil
}

// Update persists the confirmed flag of an existing segment.
func (r *GormSegmentRepository) Update(ctx context.Context, segment *relay.Segment) error {
	if err := segment.Validate(); err != nil {
		return err
	}

	dto := fromDomain(segment)
	result := r.db.WithContext(ctx).
		Model(&SegmentDTO{}).
		Where("id = ?", dto.ID).
		Update("confirmed", dto.Confirmed)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(segment.ID(), segment)
	return nil
}

// GetByParcel retrieves the parcel's full segment chain, oldest first.
func (r *GormSegmentRepository) GetByParcel(ctx context.Context, parcelID kernel.UUID) ([]*relay.Segment, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []SegmentDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "parcel_id = ?", parcelID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetOpenByParcel retrieves the parcel's unconfirmed segments, oldest first.
func (r *GormSegmentRepository) GetOpenByParcel(ctx context.Context, parcelID kernel.UUID) ([]*relay.Segment, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []SegmentDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "parcel_id = ? AND NOT confirmed", parcelID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []SegmentDTO) ([]*relay.Segment, error) {
	segments := make([]*relay.Segment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}

	return segments, nil
}
