package ports

import (
	"context"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/settlement"
)

// SettlementPublisher feeds freshly recomputed settlement records to the
// external payment gateway. The core only decides amounts and payees; it
// never moves money itself.
//
// Publishing happens after the replacing transaction commits and is
// best-effort: a publish failure is logged, never rolled back, because the
// gateway can always re-read the current record set.
type SettlementPublisher interface {
	PublishRecomputed(ctx context.Context, parcelID kernel.UUID, records []*settlement.Record) error
}
