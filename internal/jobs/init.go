package jobs

import (
	"context"
	"time"

	"exam-supervision/proctorate/internal/config"
	"exam-supervision/proctorate/internal/logging"
)

// Container bundles the orchestrator jobs for the handlers.
type Container struct {
	FacilitySync    *FacilitySyncJob
	ParticipantSync *ParticipantSyncJob
}

// InitializeJobs starts the two scheduled sync loops and returns the
// container for manual triggering. Both loops run sequentially within
// themselves; reconciliation correctness depends on the facility feed
// materializing rooms before participants reference them, so the participant
// loop never runs concurrently with itself.
func InitializeJobs(
	ctx context.Context,
	cfg config.SyncConfig,
	facilitySync *FacilitySyncJob,
	participantSync *ParticipantSyncJob,
) *Container {
	go runScheduled(ctx, "facility_sync", cfg.FacilityInterval, func(runCtx context.Context) {
		if _, err := facilitySync.Run(runCtx); err != nil {
			logging.Error("scheduled facility sync failed", "error", err.Error())
		}
	})

	go runScheduled(ctx, "participant_window_sync", cfg.ParticipantInterval, func(runCtx context.Context) {
		participantSync.RunWindow(runCtx, cfg.WindowDays)
	})

	return &Container{
		FacilitySync:    facilitySync,
		ParticipantSync: participantSync,
	}
}

// runScheduled runs fn immediately, then on every tick until the context is
// cancelled.
func runScheduled(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	logging.Info("scheduler loop started", "job", name, "interval", interval.String())

	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn(ctx)
		case <-ctx.Done():
			logging.Info("scheduler loop stopped", "job", name)
			return
		}
	}
}
