// Package relay implements the relay ledger domain model: the append-only
// log of handoff segments for a parcel, the progress-share computation frozen
// into each segment at creation, and the confirmation codes exchanged
// out-of-band between couriers.
package relay
