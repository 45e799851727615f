package commands

import (
	"context"
)

// TakeParcelCommandHandler handles the business logic for taking first
// custody of a parcel. Fails with parcel.ErrParcelAlreadyHeld when another
// courier already holds it; only handoff confirmation ever changes an
// existing holder.
type TakeParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
}

// NewTakeParcelCommandHandler creates a handler for take-parcel operations.
func NewTakeParcelCommandHandler(uowFactory ParcelUoWFactory) TakeParcelCommandHandler {
	return TakeParcelCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the take command: loads the parcel, applies the custody
// invariant, and persists the change transactionally.
func (h *TakeParcelCommandHandler) Handle(ctx context.Context, cmd TakeParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if err = p.Take(cmd.CourierID()); err != nil {
		return err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
