// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// per-parcel serialization where required, transaction management, and
// persistence.
package commands

import (
	"context"

	"relay/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ParcelRepoFactory provides access to the parcel repository within a transaction.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	// SegmentRepoFactory provides access to the segment repository within a transaction.
	SegmentRepoFactory interface {
		SegmentRepository() ports.SegmentRepository
	}

	// SettlementRepoFactory provides access to the settlement repository within a transaction.
	SettlementRepoFactory interface {
		SettlementRepository() ports.SettlementRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// ParcelUoW manages transactions for parcel-only operations,
	// such as taking custody or marking delivery.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
	}

	// ParcelUoWFactory creates new parcel unit of work instances.
	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// RelayUoW manages transactions spanning the parcel row, its segment
	// chain and its settlement records. Handoff initiation and settlement
	// recomputation are single logical transactions over all three.
	RelayUoW interface {
		TxManager
		ParcelRepoFactory
		SegmentRepoFactory
		SettlementRepoFactory
	}

	// RelayUoWFactory creates new relay unit of work instances.
	RelayUoWFactory interface {
		Create() RelayUoW
	}

	// CourierUoW manages transactions for courier registration, location
	// reports and movement declarations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}
)
