package commands_test

import (
	"testing"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/domain/model/courier"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registeredCourier(t *testing.T) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), "Jonas Weber")
	require.NoError(t, err)
	return c
}

func TestNewReportCourierLocationCommand(t *testing.T) {
	courierID := kernel.NewUUID()
	location := geoPoint(t, 48.8566, 2.3522)

	cmd, err := commands.NewReportCourierLocationCommand(courierID, location)

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.Equal(t, courierID, cmd.CourierID())
	assert.Equal(t, location, cmd.Location())
}

func TestNewReportCourierLocationCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewReportCourierLocationCommand(kernel.UUID{}, geoPoint(t, 48.8566, 2.3522))
	require.Error(t, err)

	_, err = commands.NewReportCourierLocationCommand(kernel.NewUUID(), kernel.GeoPoint{})
	require.Error(t, err)
}

func TestReportCourierLocationCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	c := registeredCourier(t)
	location := geoPoint(t, 48.8566, 2.3522)
	cmd, err := commands.NewReportCourierLocationCommand(c.ID(), location)
	require.NoError(t, err)

	repo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(repo).Once(),
		repo.On("Get", ctx, c.ID()).Return(c, nil).Once(),
		repo.On("Update", ctx, c).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReportCourierLocationCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, c.Location())
	assert.Equal(t, location, *c.Location())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestReportCourierLocationCommandHandler_Handle_ReplacesPreviousReport(t *testing.T) {
	ctx := t.Context()
	c := registeredCourier(t)
	require.NoError(t, c.ReportLocation(geoPoint(t, 45.7640, 4.8357)))
	location := geoPoint(t, 48.8566, 2.3522)
	cmd, err := commands.NewReportCourierLocationCommand(c.ID(), location)
	require.NoError(t, err)

	repo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(repo).Once(),
		repo.On("Get", ctx, c.ID()).Return(c, nil).Once(),
		repo.On("Update", ctx, c).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReportCourierLocationCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, location, *c.Location())
	uow.AssertExpectations(t)
}

func TestReportCourierLocationCommandHandler_Handle_CourierNotFound(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	cmd, err := commands.NewReportCourierLocationCommand(courierID, geoPoint(t, 48.8566, 2.3522))
	require.NoError(t, err)

	repo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(repo).Once(),
		repo.On("Get", ctx, courierID).
			Return(nil, errs.NewObjectNotFoundError("courier", courierID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReportCourierLocationCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestReportCourierLocationCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockCourierUoWFactory)

	h := commands.NewReportCourierLocationCommandHandler(factory)
	err := h.Handle(ctx, commands.ReportCourierLocationCommand{})

	require.ErrorIs(t, err, commands.ErrReportCourierLocationCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
