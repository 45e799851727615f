// Package jobs provides scheduled background tasks for the relay system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. SettlementReconciliationJob - Runs every minute to re-run the idempotent
// settlement recompute for undelivered parcels with a known order total. The
// handoff path recomputes settlement at initiation time, so a total that
// arrives from billing after a handoff would otherwise leave stale records;
// this job bounds that staleness to one schedule interval.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(reconciliationJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Per-parcel recompute failures are logged and do not stop the sweep; the
// next run retries every undelivered parcel again.
package jobs
