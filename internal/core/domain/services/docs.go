// Package services contains stateless domain services that coordinate logic
// across aggregates. The settlement planner consumes a parcel's relay chain
// and produces the proportional payment-owed records for every courier who
// moved the parcel.
package services
