package commands

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
)

// CreateParcelCommandHandler handles the business logic for registering a
// new parcel.
type CreateParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
}

// NewCreateParcelCommandHandler creates a handler for parcel registration.
func NewCreateParcelCommandHandler(uowFactory ParcelUoWFactory) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration: creates the parcel aggregate in its
// Pending phase and persists it transactionally. Returns the created parcel
// so callers can hand its identifier back to the client.
func (h *CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := parcel.NewParcel(kernel.NewUUID(), cmd.PayerClientID(), cmd.Origin(), cmd.Destination())
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

	if err = uow.ParcelRepository().Add(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
