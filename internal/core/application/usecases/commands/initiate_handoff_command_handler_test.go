package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/core/ports"
	"relay/internal/pkg/keymutex"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func geoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return point
}

func heldParcel(t *testing.T, holderID kernel.UUID, orderTotal decimal.Decimal) *parcel.Parcel {
	t.Helper()

	p, err := parcel.RestoreParcel(
		kernel.NewUUID(),
		kernel.NewUUID(),
		geoPoint(t, 0, 0),
		geoPoint(t, 1, 0),
		parcel.Collected,
		&holderID,
		true,
		orderTotal,
	)
	require.NoError(t, err)
	return p
}

func TestInitiateHandoffCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	toCourier := kernel.NewUUID()
	p := heldParcel(t, fromCourier, decimal.NewFromInt(100))
	cmd, err := commands.NewInitiateHandoffCommand(p.ID(), fromCourier, toCourier, "Main St 1")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, "Main St 1").Return(geoPoint(t, 0.5, 0), nil).Once()

	parcelRepo := new(MockParcelRepository)
	segmentRepo := new(MockSegmentRepository)
	settlementRepo := new(MockSettlementRepository)
	publisher := new(MockSettlementPublisher)
	uow := new(MockRelayUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		uow.On("SegmentRepository").Return(segmentRepo).Once(),
		segmentRepo.On("GetByParcel", ctx, p.ID()).Return([]*relay.Segment{}, nil).Once(),
		segmentRepo.On("Add", ctx, mock.AnythingOfType("*relay.Segment")).Return(nil).Once(),
		parcelRepo.On("Update", ctx, p).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("ReplaceForParcel", ctx, p.ID(), mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishRecomputed", ctx, p.ID(), mock.Anything).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewInitiateHandoffCommandHandler(factory, geocoder, publisher, keymutex.New(), testLogger())
	segment, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, segment)
	assert.Equal(t, fromCourier, segment.FromCourierID())
	assert.Equal(t, toCourier, segment.ToCourierID())
	assert.Equal(t, 50, segment.OutgoingShare())
	assert.Equal(t, 50, segment.IncomingShare())
	assert.False(t, segment.Confirmed())
	require.NoError(t, segment.Code().Validate())
	assert.Equal(t, parcel.InRelay, p.Phase())

	geocoder.AssertExpectations(t)
	parcelRepo.AssertExpectations(t)
	segmentRepo.AssertExpectations(t)
	settlementRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestInitiateHandoffCommandHandler_Handle_SecondHandoffWhileFirstUnconfirmed(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	firstReceiver := kernel.NewUUID()
	secondReceiver := kernel.NewUUID()
	p := parcelInRelay(t, fromCourier)

	priorCode, err := relay.ConfirmationCodeFromString("AB2CD3")
	require.NoError(t, err)
	prior, err := relay.NewSegment(
		kernel.NewUUID(), p.ID(), fromCourier, firstReceiver,
		"Main St 1",
		geoPoint(t, 0.3, 0),
		priorCode,
		relay.Shares{Outgoing: 30, Incoming: 70},
		time.Now().UTC(),
	)
	require.NoError(t, err)

	cmd, err := commands.NewInitiateHandoffCommand(p.ID(), fromCourier, secondReceiver, "Station Rd 7")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, "Station Rd 7").Return(geoPoint(t, 0.5, 0), nil).Once()

	parcelRepo := new(MockParcelRepository)
	segmentRepo := new(MockSegmentRepository)
	settlementRepo := new(MockSettlementRepository)
	publisher := new(MockSettlementPublisher)
	uow := new(MockRelayUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		uow.On("SegmentRepository").Return(segmentRepo).Once(),
		segmentRepo.On("GetByParcel", ctx, p.ID()).Return([]*relay.Segment{prior}, nil).Once(),
		segmentRepo.On("Add", ctx, mock.AnythingOfType("*relay.Segment")).Return(nil).Once(),
		parcelRepo.On("Update", ctx, p).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("ReplaceForParcel", ctx, p.ID(), mock.Anything).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishRecomputed", ctx, p.ID(), mock.Anything).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewInitiateHandoffCommandHandler(factory, geocoder, publisher, keymutex.New(), testLogger())
	segment, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, segment)
	assert.Equal(t, secondReceiver, segment.ToCourierID())
	assert.False(t, segment.Confirmed())
	assert.False(t, prior.Confirmed())
	assert.NotEqual(t, prior.Code(), segment.Code())

	// The abandoned handoff still anchors the chain geometry: the new leg
	// runs from the prior handoff point and its share folds the prior 30%.
	assert.Equal(t, 20, segment.OutgoingShare())
	assert.Equal(t, 50, segment.IncomingShare())

	require.NotNil(t, p.Custody())
	assert.Equal(t, fromCourier, *p.Custody())
	assert.Equal(t, parcel.InRelay, p.Phase())

	geocoder.AssertExpectations(t)
	segmentRepo.AssertExpectations(t)
	settlementRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestInitiateHandoffCommandHandler_Handle_SkipsSettlementWithoutOrderTotal(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	p := heldParcel(t, fromCourier, decimal.Zero)
	cmd, err := commands.NewInitiateHandoffCommand(p.ID(), fromCourier, kernel.NewUUID(), "Main St 1")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, "Main St 1").Return(geoPoint(t, 0.5, 0), nil).Once()

	parcelRepo := new(MockParcelRepository)
	segmentRepo := new(MockSegmentRepository)
	publisher := new(MockSettlementPublisher)
	uow := new(MockRelayUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		uow.On("SegmentRepository").Return(segmentRepo).Once(),
		segmentRepo.On("GetByParcel", ctx, p.ID()).Return([]*relay.Segment{}, nil).Once(),
		segmentRepo.On("Add", ctx, mock.AnythingOfType("*relay.Segment")).Return(nil).Once(),
		parcelRepo.On("Update", ctx, p).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewInitiateHandoffCommandHandler(factory, geocoder, publisher, keymutex.New(), testLogger())
	_, err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.AssertNotCalled(t, "SettlementRepository")
	publisher.AssertNotCalled(t, "PublishRecomputed", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestInitiateHandoffCommandHandler_Handle_GeocodingFailureCommitsNothing(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	cmd, err := commands.NewInitiateHandoffCommand(kernel.NewUUID(), fromCourier, kernel.NewUUID(), "nowhere")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, "nowhere").
		Return(kernel.GeoPoint{}, ports.ErrGeocodingFailed).Once()

	factory := new(MockRelayUoWFactory)
	publisher := new(MockSettlementPublisher)

	h := commands.NewInitiateHandoffCommandHandler(factory, geocoder, publisher, keymutex.New(), testLogger())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrGeocodingFailed)
	factory.AssertNotCalled(t, "Create")
	geocoder.AssertExpectations(t)
}

func TestInitiateHandoffCommandHandler_Handle_NotCurrentHolder(t *testing.T) {
	ctx := t.Context()
	p := heldParcel(t, kernel.NewUUID(), decimal.NewFromInt(100))
	cmd, err := commands.NewInitiateHandoffCommand(p.ID(), kernel.NewUUID(), kernel.NewUUID(), "Main St 1")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, "Main St 1").Return(geoPoint(t, 0.5, 0), nil).Once()

	parcelRepo := new(MockParcelRepository)
	uow := new(MockRelayUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewInitiateHandoffCommandHandler(factory, geocoder, new(MockSettlementPublisher), keymutex.New(), testLogger())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, relay.ErrNotCurrentHolder)
	parcelRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestInitiateHandoffCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockRelayUoWFactory)
	geocoder := new(MockGeocoder)

	h := commands.NewInitiateHandoffCommandHandler(factory, geocoder, new(MockSettlementPublisher), keymutex.New(), testLogger())
	_, err := h.Handle(ctx, commands.InitiateHandoffCommand{})

	require.Error(t, err)
	geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestNewInitiateHandoffCommand_Validation(t *testing.T) {
	t.Run("should reject a handoff to the same courier", func(t *testing.T) {
		courierID := kernel.NewUUID()

		_, err := commands.NewInitiateHandoffCommand(kernel.NewUUID(), courierID, courierID, "Main St 1")

		require.Error(t, err)
	})

	t.Run("should reject an empty address", func(t *testing.T) {
		_, err := commands.NewInitiateHandoffCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "")

		require.Error(t, err)
	})

	t.Run("should reject empty identifiers", func(t *testing.T) {
		_, err := commands.NewInitiateHandoffCommand(kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), "Main St 1")

		require.Error(t, err)
	})
}
