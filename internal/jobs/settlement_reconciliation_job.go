package jobs

import (
	"context"
	"log/slog"

	"relay/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SettlementReconciliationJob periodically re-runs the settlement recompute
// for undelivered parcels with a known order total. The recompute is
// idempotent, so sweeping parcels whose records are already current is
// harmless.
type SettlementReconciliationJob struct {
	uowFactory commands.ParcelUoWFactory
	handler    commands.RecomputeSettlementCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewSettlementReconciliationJob creates the reconciliation job.
// The recompute handler must share its per-parcel locks with the handoff
// handlers.
func NewSettlementReconciliationJob(
	uowFactory commands.ParcelUoWFactory,
	handler commands.RecomputeSettlementCommandHandler,
	logger *slog.Logger,
) *SettlementReconciliationJob {
	return &SettlementReconciliationJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(),
		logger:     logger.With("component", "settlement_reconciliation_job"),
	}
}

// Start begins the reconciliation job, running every minute.
func (j *SettlementReconciliationJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Settlement reconciliation job started (running every minute)")
	return nil
}

// Stop stops the reconciliation job.
func (j *SettlementReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Settlement reconciliation job stopped")
}

func (j *SettlementReconciliationJob) run() {
	ctx := context.Background()

	parcels, err := j.uowFactory.Create().ParcelRepository().GetAllUndelivered(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Settlement reconciliation sweep failed to list parcels", "error", err)
		return
	}

	for _, p := range parcels {
		if !p.HasKnownOrderTotal() {
			continue
		}

		cmd, cmdErr := commands.NewRecomputeSettlementCommand(p.ID(), p.OrderTotal(), p.PayerClientID())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Settlement reconciliation skipped parcel",
				"parcel_id", p.ID().String(), "error", cmdErr)
			continue
		}

		// A parcel without segments is a no-op inside the handler.
		if _, handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Settlement reconciliation failed for parcel",
				"parcel_id", p.ID().String(), "error", handleErr)
		}
	}
}
