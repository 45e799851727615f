package commands

import (
	"context"

	"relay/internal/core/domain/model/courier"
	"relay/internal/core/domain/model/kernel"
)

// RegisterCourierCommandHandler handles the business logic for registering
// a new courier.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewRegisterCourierCommandHandler creates a handler for courier
// registration.
func NewRegisterCourierCommandHandler(uowFactory CourierUoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration: creates the courier aggregate and
// persists it transactionally. Returns the created courier so callers can
// hand its identifier back to the client.
func (h *RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := courier.NewCourier(kernel.NewUUID(), cmd.Name())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
