// Package parcel implements the Parcel aggregate: the shipped item being
// relayed between couriers. The aggregate owns the custody invariant (zero or
// one active holder) and the delivery phase state machine
// Pending -> Collected -> {InRelay <-> InTransit}* -> Delivered.
package parcel
