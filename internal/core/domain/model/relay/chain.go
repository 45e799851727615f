package relay

import (
	"math"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/errs"
)

// Shares holds the progress percentages frozen into a segment at creation.
//
// Outgoing is the percentage of the total route distance credited to the
// outgoing courier for the leg ending at this segment's handoff point.
// Incoming is a provisional estimate of what the incoming courier would earn
// if they delivered the rest of the route directly; it is superseded by that
// courier's own outgoing share on their subsequent segment, or stands as
// their final share if they deliver to the destination.
type Shares struct {
	Outgoing int
	Incoming int
}

// Validate checks the share bounds. Outgoing may exceed 100 on a detour leg
// longer than the declared route; Incoming is clamped to [0,100] at
// computation time.
func (s Shares) Validate() error {
	if s.Outgoing < 0 {
		return errs.NewValueIsOutOfRangeError("outgoing share", s.Outgoing, 0, math.MaxInt)
	}
	if s.Incoming < 0 || s.Incoming > 100 {
		return errs.NewValueIsOutOfRangeError("incoming share", s.Incoming, 0, 100)
	}
	return nil
}

// ComputeShares derives the shares for a new handoff at handoffPoint, given
// the parcel's declared route and the full ordered chain of prior segments.
//
// The computation is a pure fold over the prior chain:
//   - the last known position is the most recent segment's handoff point, or
//     the route origin when no segments exist
//   - cumulative progress is the sum of all prior segments' outgoing shares
//   - the new outgoing share is the leg distance from the last known position
//     to handoffPoint as a rounded percentage of the total route distance
//   - the new incoming share is max(0, 100 - (cumulative + outgoing))
//
// A zero-length route (origin equals destination) degenerates to 100%
// immediate progress to avoid division by zero.
//
// Prior segments are folded regardless of their confirmed state: an
// unconfirmed handoff still fixes the chain geometry for the segments created
// after it.
func ComputeShares(
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
	prior []*Segment,
	handoffPoint kernel.GeoPoint,
) (Shares, error) {
	totalKm, err := origin.DistanceKm(destination)
	if err != nil {
		return Shares{}, err
	}

	if totalKm == 0 {
		return Shares{Outgoing: 100, Incoming: 0}, nil
	}

	lastPoint := origin
	cumulative := 0
	for _, segment := range prior {
		if err = segment.Validate(); err != nil {
			return Shares{}, err
		}
		lastPoint = segment.Point()
		cumulative += segment.OutgoingShare()
	}

	legKm, err := lastPoint.DistanceKm(handoffPoint)
	if err != nil {
		return Shares{}, err
	}

	outgoing := int(math.Round(legKm / totalKm * 100))
	incoming := 100 - (cumulative + outgoing)
	if incoming < 0 {
		incoming = 0
	}

	return Shares{Outgoing: outgoing, Incoming: incoming}, nil
}

// Progress describes how far along its declared route a parcel has moved,
// judged by its most recent handoff point.
type Progress struct {
	// CurrentLegProgress is the rounded percentage of the total route covered
	// from the origin to the latest handoff point.
	CurrentLegProgress int

	// RemainingProgress is 100 minus CurrentLegProgress.
	RemainingProgress int

	// LastHandoffLocation is the latest segment's geocoded handoff point.
	LastHandoffLocation kernel.GeoPoint
}

// ChainProgress computes the route progress implied by the most recent
// handoff point, regardless of the segment's confirmed state. A zero-length
// route reports immediate full progress.
func ChainProgress(origin kernel.GeoPoint, destination kernel.GeoPoint, lastHandoff kernel.GeoPoint) (Progress, error) {
	totalKm, err := origin.DistanceKm(destination)
	if err != nil {
		return Progress{}, err
	}

	if totalKm == 0 {
		return Progress{
			CurrentLegProgress:  100,
			RemainingProgress:   0,
			LastHandoffLocation: lastHandoff,
		}, nil
	}

	coveredKm, err := origin.DistanceKm(lastHandoff)
	if err != nil {
		return Progress{}, err
	}

	progress := int(math.Round(coveredKm / totalKm * 100))
	return Progress{
		CurrentLegProgress:  progress,
		RemainingProgress:   100 - progress,
		LastHandoffLocation: lastHandoff,
	}, nil
}
