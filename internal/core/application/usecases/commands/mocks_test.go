package commands_test

import (
	"context"
	"errors"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/domain/model/courier"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/core/domain/model/settlement"
	"relay/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}
func (m *MockParcelRepository) GetAllUndelivered(_ context.Context) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

type MockSegmentRepository struct{ mock.Mock }

func (m *MockSegmentRepository) Add(ctx context.Context, segment *relay.Segment) error {
	args := m.Called(ctx, segment)
	return args.Error(0)
}
func (m *MockSegmentRepository) Update(ctx context.Context, segment *relay.Segment) error {
	args := m.Called(ctx, segment)
	return args.Error(0)
}
func (m *MockSegmentRepository) GetByParcel(ctx context.Context, parcelID kernel.UUID) ([]*relay.Segment, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*relay.Segment), args.Error(1)
}
func (m *MockSegmentRepository) GetOpenByParcel(ctx context.Context, parcelID kernel.UUID) ([]*relay.Segment, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*relay.Segment), args.Error(1)
}

type MockSettlementRepository struct{ mock.Mock }

func (m *MockSettlementRepository) ReplaceForParcel(
	ctx context.Context,
	parcelID kernel.UUID,
	records []*settlement.Record,
) error {
	args := m.Called(ctx, parcelID, records)
	return args.Error(0)
}
func (m *MockSettlementRepository) GetByParcel(_ context.Context, _ kernel.UUID) ([]*settlement.Record, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockSettlementRepository) Update(_ context.Context, _ *settlement.Record) error {
	return errors.New("not implemented in mock")
}

type MockRelayUoW struct{ mock.Mock }

func (m *MockRelayUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRelayUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRelayUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRelayUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}
func (m *MockRelayUoW) SegmentRepository() ports.SegmentRepository {
	args := m.Called()
	return args.Get(0).(ports.SegmentRepository)
}
func (m *MockRelayUoW) SettlementRepository() ports.SettlementRepository {
	args := m.Called()
	return args.Get(0).(ports.SettlementRepository)
}

type MockRelayUoWFactory struct{ mock.Mock }

func (m *MockRelayUoWFactory) Create() commands.RelayUoW {
	args := m.Called()
	return args.Get(0).(commands.RelayUoW)
}

type MockParcelUoW struct{ mock.Mock }

func (m *MockParcelUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockParcelUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockParcelUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockParcelUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

type MockParcelUoWFactory struct{ mock.Mock }

func (m *MockParcelUoWFactory) Create() commands.ParcelUoW {
	args := m.Called()
	return args.Get(0).(commands.ParcelUoW)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

type MockCourierUoW struct{ mock.Mock }

func (m *MockCourierUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCourierUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCourierUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCourierUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockSettlementPublisher struct{ mock.Mock }

func (m *MockSettlementPublisher) PublishRecomputed(
	ctx context.Context,
	parcelID kernel.UUID,
	records []*settlement.Record,
) error {
	args := m.Called(ctx, parcelID, records)
	return args.Error(0)
}
