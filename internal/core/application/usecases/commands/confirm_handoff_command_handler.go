package commands

import (
	"context"

	"relay/internal/core/domain/model/relay"
	"relay/internal/pkg/keymutex"
)

// ConfirmHandoffCommandHandler handles the business logic for closing a
// handoff: the incoming courier presents the code, the segment is confirmed,
// and custody formally changes.
//
// Confirmation does not re-run settlement; the recompute already ran at
// initiation and the reconciliation job keeps records current.
type ConfirmHandoffCommandHandler struct {
	uowFactory RelayUoWFactory
	locks      *keymutex.KeyMutex
}

// NewConfirmHandoffCommandHandler creates a handler for handoff confirmation.
// The locks instance must be the one shared with the initiate handler.
func NewConfirmHandoffCommandHandler(uowFactory RelayUoWFactory, locks *keymutex.KeyMutex) ConfirmHandoffCommandHandler {
	return ConfirmHandoffCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle finds the unique open segment matching (parcel, courier, code),
// confirms it, flips custody to the incoming courier and moves the parcel to
// InTransit. Fails with relay.ErrInvalidCode when no open segment matches:
// wrong code, already confirmed, or wrong courier. On failure nothing
// changes, in particular custody.
func (h *ConfirmHandoffCommandHandler) Handle(ctx context.Context, cmd ConfirmHandoffCommand) (*relay.Segment, error) {
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

	segmentRepo := uow.SegmentRepository()
	open, err := segmentRepo.GetOpenByParcel(ctx, cmd.ParcelID())
	if err != nil {
		return nil, err
	}

	var match *relay.Segment
	for _, segment := range open {
		if segment.MatchesConfirmation(cmd.ToCourierID(), cmd.Code()) {
			match = segment
			break
		}
	}

	if match == nil {
		return nil, relay.ErrInvalidCode
	}

	if err = match.Confirm(); err != nil {
		return nil, err
	}

	if err = segmentRepo.Update(ctx, match); err != nil {
		return nil, err
	}

	if err = p.TransferCustody(cmd.ToCourierID()); err != nil {
		return nil, err
	}

	if err = parcelRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return match, nil
}
