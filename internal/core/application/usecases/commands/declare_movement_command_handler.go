package commands

import (
	"context"

	"relay/internal/core/domain/model/courier"
	"relay/internal/core/domain/model/kernel"
)

// DeclareMovementCommandHandler handles the business logic for declaring a
// courier route leg.
type DeclareMovementCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewDeclareMovementCommandHandler creates a handler for movement
// declarations.
func NewDeclareMovementCommandHandler(uowFactory CourierUoWFactory) DeclareMovementCommandHandler {
	return DeclareMovementCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the declaration: loads the courier, appends a new active
// movement, and persists the change transactionally. Returns the created
// movement so callers can hand its identifier back to the client.
func (h *DeclareMovementCommandHandler) Handle(ctx context.Context, cmd DeclareMovementCommand) (*courier.Movement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	movement, err := courier.NewMovement(kernel.NewUUID(), cmd.Origin(), cmd.Destination())
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

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	if err = c.DeclareMovement(movement); err != nil {
		return nil, err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return movement, nil
}
