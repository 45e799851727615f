package commands_test

import (
	"errors"
	"testing"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/core/domain/model/settlement"
	"relay/internal/pkg/keymutex"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecomputeSettlementCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	toCourier := kernel.NewUUID()
	p := heldParcel(t, fromCourier, decimal.Zero)
	segment := openSegment(t, p, fromCourier, toCourier, "AB2CD3")
	cmd, err := commands.NewRecomputeSettlementCommand(p.ID(), decimal.NewFromInt(100), p.PayerClientID())
	require.NoError(t, err)

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
		segmentRepo.On("GetByParcel", ctx, p.ID()).Return([]*relay.Segment{segment}, nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("ReplaceForParcel", ctx, p.ID(), mock.Anything).Return(nil).Once(),
		parcelRepo.On("Update", ctx, p).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishRecomputed", ctx, p.ID(), mock.Anything).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecomputeSettlementCommandHandler(factory, publisher, keymutex.New(), testLogger())
	records, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(p.OrderTotal()))

	byPayee := map[string]*settlement.Record{}
	for _, record := range records {
		byPayee[record.PayeeCourierID().String()] = record
	}
	require.Contains(t, byPayee, fromCourier.String())
	assert.True(t, decimal.NewFromInt(50).Equal(byPayee[fromCourier.String()].Amount()))
	assert.Equal(t, settlement.StatusCompleted, byPayee[fromCourier.String()].Status())
	require.Contains(t, byPayee, toCourier.String())
	assert.Equal(t, settlement.StatusPending, byPayee[toCourier.String()].Status())

	parcelRepo.AssertExpectations(t)
	segmentRepo.AssertExpectations(t)
	settlementRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRecomputeSettlementCommandHandler_Handle_NoSegmentsIsNoOp(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	p := heldParcel(t, fromCourier, decimal.Zero)
	cmd, err := commands.NewRecomputeSettlementCommand(p.ID(), decimal.NewFromInt(100), p.PayerClientID())
	require.NoError(t, err)

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
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecomputeSettlementCommandHandler(factory, publisher, keymutex.New(), testLogger())
	records, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, records)
	uow.AssertNotCalled(t, "SettlementRepository")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "PublishRecomputed", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestRecomputeSettlementCommandHandler_Handle_PublishFailureIsNotFatal(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	p := heldParcel(t, fromCourier, decimal.Zero)
	segment := openSegment(t, p, fromCourier, kernel.NewUUID(), "AB2CD3")
	cmd, err := commands.NewRecomputeSettlementCommand(p.ID(), decimal.NewFromInt(100), p.PayerClientID())
	require.NoError(t, err)

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
		segmentRepo.On("GetByParcel", ctx, p.ID()).Return([]*relay.Segment{segment}, nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("ReplaceForParcel", ctx, p.ID(), mock.Anything).Return(nil).Once(),
		parcelRepo.On("Update", ctx, p).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishRecomputed", ctx, p.ID(), mock.Anything).
			Return(errors.New("broker unavailable")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecomputeSettlementCommandHandler(factory, publisher, keymutex.New(), testLogger())
	records, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Len(t, records, 2)
	publisher.AssertExpectations(t)
}

func TestRecomputeSettlementCommandHandler_Handle_ReplaceError(t *testing.T) {
	ctx := t.Context()
	fromCourier := kernel.NewUUID()
	p := heldParcel(t, fromCourier, decimal.Zero)
	segment := openSegment(t, p, fromCourier, kernel.NewUUID(), "AB2CD3")
	cmd, err := commands.NewRecomputeSettlementCommand(p.ID(), decimal.NewFromInt(100), p.PayerClientID())
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	segmentRepo := new(MockSegmentRepository)
	settlementRepo := new(MockSettlementRepository)
	uow := new(MockRelayUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		uow.On("SegmentRepository").Return(segmentRepo).Once(),
		segmentRepo.On("GetByParcel", ctx, p.ID()).Return([]*relay.Segment{segment}, nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("ReplaceForParcel", ctx, p.ID(), mock.Anything).
			Return(errors.New("replace error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRelayUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecomputeSettlementCommandHandler(factory, new(MockSettlementPublisher), keymutex.New(), testLogger())
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestNewRecomputeSettlementCommand_Validation(t *testing.T) {
	t.Run("should reject a non-positive total", func(t *testing.T) {
		_, err := commands.NewRecomputeSettlementCommand(kernel.NewUUID(), decimal.Zero, kernel.NewUUID())
		require.ErrorIs(t, err, settlement.ErrInvalidAmount)

		_, err = commands.NewRecomputeSettlementCommand(kernel.NewUUID(), decimal.NewFromInt(-10), kernel.NewUUID())
		require.ErrorIs(t, err, settlement.ErrInvalidAmount)
	})

	t.Run("should reject empty identifiers", func(t *testing.T) {
		_, err := commands.NewRecomputeSettlementCommand(kernel.UUID{}, decimal.NewFromInt(100), kernel.NewUUID())
		require.Error(t, err)

		_, err = commands.NewRecomputeSettlementCommand(kernel.NewUUID(), decimal.NewFromInt(100), kernel.UUID{})
		require.Error(t, err)
	})
}
