package commands

import (
	"context"
	"log/slog"

	"relay/internal/core/domain/model/settlement"
	"relay/internal/core/domain/services"
	"relay/internal/core/ports"
	"relay/internal/pkg/keymutex"
)

// RecomputeSettlementCommandHandler handles the idempotent recomputation of
// a parcel's settlement records.
//
// The recompute is a replace, not an append: all existing records for the
// parcel are deleted and the planner's fresh output is persisted in the same
// transaction. Running it twice with the same inputs yields the same set of
// (payee, amount, status) tuples. Per-record rounding drift against the
// total is accepted and never redistributed.
type RecomputeSettlementCommandHandler struct {
	uowFactory RelayUoWFactory
	publisher  ports.SettlementPublisher
	planner    services.SettlementPlanner
	locks      *keymutex.KeyMutex
	logger     *slog.Logger
}

// NewRecomputeSettlementCommandHandler creates a handler for settlement
// recomputation. The locks instance must be the one shared with the handoff
// handlers: the recompute reads the segment chain and then replaces the
// record set, and a concurrent segment insert between the two would be
// silently dropped.
func NewRecomputeSettlementCommandHandler(
	uowFactory RelayUoWFactory,
	publisher ports.SettlementPublisher,
	locks *keymutex.KeyMutex,
	logger *slog.Logger,
) RecomputeSettlementCommandHandler {
	return RecomputeSettlementCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		planner:    services.NewSettlementPlanner(),
		locks:      locks,
		logger:     logger.With("component", "recompute_settlement"),
	}
}

// Handle recomputes and persists the parcel's settlement records, records
// the supplied total on the parcel for later recomputes, and returns the new
// record set. A parcel without segments is a logged no-op returning an empty
// set.
func (h *RecomputeSettlementCommandHandler) Handle(
	ctx context.Context,
	cmd RecomputeSettlementCommand,
) ([]*settlement.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	h.locks.Lock(cmd.ParcelID().String())
	defer h.locks.Unlock(cmd.ParcelID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()
	p, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return nil, err
	}

	segments, err := uow.SegmentRepository().GetByParcel(ctx, cmd.ParcelID())
	if err != nil {
		return nil, err
	}

	if len(segments) == 0 {
		h.logger.InfoContext(ctx, "Parcel has no relay segments, settlement recompute is a no-op",
			"parcel_id", cmd.ParcelID().String())
		return []*settlement.Record{}, nil
	}

	records, err := h.planner.Plan(cmd.ParcelID(), cmd.PayerClientID(), segments, cmd.TotalAmount())
	if err != nil {
		return nil, err
	}

	if err = uow.SettlementRepository().ReplaceForParcel(ctx, cmd.ParcelID(), records); err != nil {
		return nil, err
	}

	if err = p.SetOrderTotal(cmd.TotalAmount()); err != nil {
		return nil, err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if err = h.publisher.PublishRecomputed(ctx, cmd.ParcelID(), records); err != nil {
		h.logger.ErrorContext(ctx, "Failed to publish recomputed settlement records",
			"parcel_id", cmd.ParcelID().String(), "error", err)
	}

	return records, nil
}
