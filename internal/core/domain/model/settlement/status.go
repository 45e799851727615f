package settlement

import (
	"fmt"

	"relay/internal/pkg/errs"
)

// Status represents the lifecycle state of a settlement record.
//
// Pending records await client validation (provisional incoming-courier
// shares); Completed records are owed and ready for the payment gateway;
// Paid and Failed are written back by the external gateway after it attempts
// to move funds.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending marks a provisional record awaiting client validation.
	StatusPending

	// StatusCompleted marks an owed amount ready for the payment gateway.
	StatusCompleted

	// StatusPaid marks a record the gateway successfully paid out.
	StatusPaid

	// StatusFailed marks a record the gateway failed to pay out.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "Unknown",
		StatusPending:   "Pending",
		StatusCompleted: "Completed",
		StatusPaid:      "Paid",
		StatusFailed:    "Failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:   "Pending",
		StatusCompleted: "Completed",
		StatusPaid:      "Paid",
		StatusFailed:    "Failed",
	}
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a status name as produced by String.
// Returns an error for unknown names.
func StatusFromString(str string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == str {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", str),
	)
}
