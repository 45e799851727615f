// Package courier implements the Courier aggregate and its declared route
// movements. Couriers are mostly managed upstream; the relay core reads their
// last known position and active movements for proximity queries, and their
// identities participate in custody and settlement.
package courier
