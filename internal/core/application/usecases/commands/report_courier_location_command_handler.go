package commands

import (
	"context"
)

// ReportCourierLocationCommandHandler handles the business logic for a
// courier's location report: the last known position drives the proximity
// query, nothing else reads it.
type ReportCourierLocationCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewReportCourierLocationCommandHandler creates a handler for location
// reports.
func NewReportCourierLocationCommandHandler(uowFactory CourierUoWFactory) ReportCourierLocationCommandHandler {
	return ReportCourierLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the report: loads the courier, replaces the last known
// position, and persists the change transactionally.
func (h *ReportCourierLocationCommandHandler) Handle(ctx context.Context, cmd ReportCourierLocationCommand) error {
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

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = c.ReportLocation(cmd.Location()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
