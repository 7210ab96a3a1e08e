// Package jobs provides scheduled background tasks for the ordering system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order workflow.
//
// # Available Jobs
//
// 1. OrderPromotionJob - Periodically moves pending orders that have aged past
// the promotion threshold into the processing status on behalf of the system
// actor.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(promoteHandler, "*/30 * * * * *", logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six field cron expressions with a leading seconds field, so
// sub-minute intervals like "*/30 * * * * *" are supported.
//
// # Error Handling
//
// The promotion job logs failures and keeps its schedule; an order that cannot
// be promoted in one run is retried on the next. Per-order failures inside a
// run are logged and skipped by the handler itself.
package jobs
