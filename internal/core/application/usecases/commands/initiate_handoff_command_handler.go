package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/core/domain/model/settlement"
	"relay/internal/core/domain/services"
	"relay/internal/core/ports"
	"relay/internal/pkg/keymutex"
)

// codeGenerationAttempts bounds the retry loop when a freshly generated
// confirmation code collides with another open segment of the same parcel.
const codeGenerationAttempts = 5

// InitiateHandoffCommandHandler handles the business logic for starting a
// custody transfer between two couriers.
//
// The handler geocodes the handoff address, freezes the new segment's
// progress shares from the parcel's prior chain, issues a confirmation code
// unique among the parcel's open segments, moves the parcel to InRelay, and
// recomputes the settlement records with the order total currently known.
//
// The settlement recompute runs at initiation rather than at confirmation,
// matching the platform's historical behavior: it can provisionally credit a
// handoff that is never confirmed. The periodic reconciliation job re-runs
// the idempotent recompute to bound the staleness.
//
// Operations on the same parcel are serialized through a keyed mutex so two
// concurrent handoffs cannot both fold the same prior chain.
type InitiateHandoffCommandHandler struct {
	uowFactory RelayUoWFactory
	geocoder   ports.Geocoder
	publisher  ports.SettlementPublisher
	planner    services.SettlementPlanner
	locks      *keymutex.KeyMutex
	logger     *slog.Logger
}

// NewInitiateHandoffCommandHandler creates a handler for handoff initiation.
// The locks instance must be shared with the confirm and recompute handlers
// so all mutations of one parcel serialize on the same mutex.
func NewInitiateHandoffCommandHandler(
	uowFactory RelayUoWFactory,
	geocoder ports.Geocoder,
	publisher ports.SettlementPublisher,
	locks *keymutex.KeyMutex,
	logger *slog.Logger,
) InitiateHandoffCommandHandler {
	return InitiateHandoffCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		publisher:  publisher,
		planner:    services.NewSettlementPlanner(),
		locks:      locks,
		logger:     logger.With("component", "initiate_handoff"),
	}
}

// Handle processes the handoff initiation and returns the created segment,
// including the confirmation code the outgoing courier relays out-of-band.
//
// Failure modes: errs.ObjectNotFoundError when the parcel does not exist,
// relay.ErrNotCurrentHolder when the outgoing courier does not hold the
// parcel, ports.ErrGeocodingFailed when the address cannot be resolved. A
// geocoding failure commits nothing: no segment row, no phase change.
func (h *InitiateHandoffCommandHandler) Handle(
	ctx context.Context,
	cmd InitiateHandoffCommand,
) (*relay.Segment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Geocoding is the only external call; it happens before the transaction
	// so a slow or failing geocoder never holds the parcel row.
	point, err := h.geocoder.Geocode(ctx, cmd.HandoffAddress())
	if err != nil {
		return nil, err
	}

	h.locks.Lock(cmd.ParcelID().String())
	defer h.locks.Unlock(cmd.ParcelID().String())

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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

	if p.Custody() == nil || !p.Custody().IsEqual(cmd.FromCourierID()) {
		return nil, relay.ErrNotCurrentHolder
	}

	segmentRepo := uow.SegmentRepository()
	prior, err := segmentRepo.GetByParcel(ctx, cmd.ParcelID())
	if err != nil {
		return nil, err
	}

	shares, err := relay.ComputeShares(p.Origin(), p.Destination(), prior, point)
	if err != nil {
		return nil, err
	}

	code, err := h.generateCode(prior)
	if err != nil {
		return nil, err
	}

	segment, err := relay.NewSegment(
		kernel.NewUUID(),
		cmd.ParcelID(),
		cmd.FromCourierID(),
		cmd.ToCourierID(),
		cmd.HandoffAddress(),
		point,
		code,
		shares,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = segmentRepo.Add(ctx, segment); err != nil {
		return nil, err
	}

	if err = p.BeginRelay(); err != nil {
		return nil, err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	records, err := h.recomputeSettlement(ctx, uow, p, append(prior, segment))
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publishRecords(ctx, p, records)

	return segment, nil
}

// recomputeSettlement replaces the parcel's settlement records within the
// ongoing transaction. When no order total is known yet the recompute is
// skipped; the reconciliation job picks the parcel up once billing writes it.
func (h *InitiateHandoffCommandHandler) recomputeSettlement(
	ctx context.Context,
	uow RelayUoW,
	p *parcel.Parcel,
	chain []*relay.Segment,
) ([]*settlement.Record, error) {
	if !p.HasKnownOrderTotal() {
		h.logger.InfoContext(ctx, "Order total not yet known, settlement recompute skipped",
			"parcel_id", p.ID().String())
		return nil, nil
	}

	records, err := h.planner.Plan(p.ID(), p.PayerClientID(), chain, p.OrderTotal())
	if err != nil {
		return nil, err
	}

	if err = uow.SettlementRepository().ReplaceForParcel(ctx, p.ID(), records); err != nil {
		return nil, err
	}

	return records, nil
}

// publishRecords feeds the committed record set to the payment gateway
// topic. Best-effort: a publish failure is logged, the gateway re-reads the
// current set on its next poll.
func (h *InitiateHandoffCommandHandler) publishRecords(
	ctx context.Context,
	p *parcel.Parcel,
	records []*settlement.Record,
) {
	if len(records) == 0 {
		return
	}

	if err := h.publisher.PublishRecomputed(ctx, p.ID(), records); err != nil {
		h.logger.ErrorContext(ctx, "Failed to publish recomputed settlement records",
			"parcel_id", p.ID().String(), "error", err)
	}
}

// generateCode issues a confirmation code that does not collide with any
// open segment of the parcel. Uniqueness is scoped to open segments only,
// not globally across all time.
func (h *InitiateHandoffCommandHandler) generateCode(prior []*relay.Segment) (relay.ConfirmationCode, error) {
	open := make(map[relay.ConfirmationCode]struct{})
	for _, s := range prior {
		if !s.Confirmed() {
			open[s.Code()] = struct{}{}
		}
	}

	for range codeGenerationAttempts {
		code, err := relay.NewConfirmationCode()
		if err != nil {
			return "", err
		}
		if _, taken := open[code]; !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("could not generate a unique confirmation code after %d attempts", codeGenerationAttempts)
}
