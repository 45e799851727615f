package parcel

import (
	"fmt"

	"relay/internal/pkg/errs"
)

// Phase represents the delivery lifecycle state of a parcel.
// It implements a state machine with defined transitions:
//
//	Pending ──> Collected ──> InRelay <──> InTransit ──> Delivered
//
// InRelay means a handoff has been initiated but not yet confirmed;
// InTransit means the most recent handoff was confirmed. The two may
// alternate arbitrarily many times for multi-hop relays. Delivered is a
// final state with no further transitions.
type Phase int

const (
	// PhaseUnknown represents an invalid or undefined phase.
	// This value (0) helps catch uninitialized Phase values.
	PhaseUnknown Phase = iota

	// Pending is the initial phase of a freshly created parcel with no courier.
	Pending

	// Collected indicates the first courier has taken custody of the parcel.
	Collected

	// InRelay indicates a handoff has been initiated and awaits confirmation.
	InRelay

	// InTransit indicates the most recent handoff was confirmed and the
	// receiving courier is carrying the parcel.
	InTransit

	// Delivered indicates the parcel reached its destination. Final state.
	Delivered
)

func getPhaseStrings() map[Phase]string {
	return map[Phase]string{
		PhaseUnknown: "Unknown",
		Pending:      "Pending",
		Collected:    "Collected",
		InRelay:      "InRelay",
		InTransit:    "InTransit",
		Delivered:    "Delivered",
	}
}

func getValidPhaseStrings() map[Phase]string {
	//nolint:exhaustive // PhaseUnknown is intentionally excluded as it's invalid
	return map[Phase]string{
		Pending:   "Pending",
		Collected: "Collected",
		InRelay:   "InRelay",
		InTransit: "InTransit",
		Delivered: "Delivered",
	}
}

// Validate checks if the Phase value is one of the defined lifecycle phases.
// PhaseUnknown (0) and any other values are invalid.
func (p Phase) Validate() error {
	if _, ok := getValidPhaseStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("phase is invalid", fmt.Errorf("%d is not a valid phase", p))
	}
	return nil
}

// String returns the human-readable name of the phase.
// Implements fmt.Stringer and is safe to call on any Phase value.
func (p Phase) String() string {
	if str, ok := getPhaseStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

// PhaseFromString parses a phase name as produced by String.
// Returns an error for unknown names.
func PhaseFromString(s string) (Phase, error) {
	for phase, name := range getValidPhaseStrings() {
		if name == s {
			return phase, nil
		}
	}
	return PhaseUnknown, errs.NewValueIsInvalidErrorWithCause(
		"phase is invalid",
		fmt.Errorf("%q is not a valid phase", s),
	)
}

// CanTransitionTo reports whether a direct transition from this phase to the
// target phase is legal.
//
// Legal transitions:
//   - Pending -> Collected
//   - Collected -> InRelay
//   - InRelay -> InTransit (handoff confirmed)
//   - InTransit -> InRelay (next handoff initiated)
//   - InTransit -> Delivered (external delivery confirmation)
//   - any phase -> itself (idempotent writes)
//
// There is no transition out of Delivered.
func (p Phase) CanTransitionTo(target Phase) bool {
	if p == target {
		return p != PhaseUnknown
	}

	switch p {
	case Pending:
		return target == Collected
	case Collected:
		return target == InRelay
	case InRelay:
		return target == InTransit
	case InTransit:
		return target == InRelay || target == Delivered
	case Delivered, PhaseUnknown:
		return false
	default:
		return false
	}
}

// TransitionTo returns the target phase when the transition is legal.
// Returns an error describing the rejected transition otherwise.
func (p Phase) TransitionTo(target Phase) (Phase, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}

	if !p.CanTransitionTo(target) {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"phase is invalid",
			fmt.Errorf("transition from %s to %s is not allowed", p.String(), target.String()),
		)
	}

	return target, nil
}
