// Package settlement implements the payment-owed records derived from a
// parcel's relay chain. Records are the idempotent output of the settlement
// recompute: the set for a parcel is always exactly the result of the most
// recent engine run, never an incremental ledger.
//
// The status and validation mutators (MarkClientValidated, MarkPaid,
// MarkFailed) model writes owned by the external payment gateway and client
// apps; this service computes and replaces records but exposes no endpoint
// that applies those transitions.
package settlement
