package commands

import (
	"context"

	"relay/internal/core/domain/model/parcel"
)

// MarkParcelDeliveredCommandHandler applies the external delivery
// confirmation: InTransit -> Delivered. Delivered is terminal.
type MarkParcelDeliveredCommandHandler struct {
	uowFactory ParcelUoWFactory
}

// NewMarkParcelDeliveredCommandHandler creates a handler for delivery marks.
func NewMarkParcelDeliveredCommandHandler(uowFactory ParcelUoWFactory) MarkParcelDeliveredCommandHandler {
	return MarkParcelDeliveredCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the parcel and applies the validated phase transition.
func (h *MarkParcelDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkParcelDeliveredCommand) error {
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

	if err = p.MarkPhase(parcel.Delivered); err != nil {
		return err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
