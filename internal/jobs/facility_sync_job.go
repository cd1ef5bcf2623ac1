package jobs

import (
	"context"
	"errors"
	"time"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/logging"
	"exam-supervision/proctorate/internal/metrics"
	"exam-supervision/proctorate/internal/models/dtos"
	"exam-supervision/proctorate/internal/models/entities"
	"exam-supervision/proctorate/internal/services"

	"golang.org/x/sync/singleflight"
)

// ErrSyncAlreadyRunning is returned when a trigger finds a fresh IN_PROGRESS
// ledger row for the same sync type.
var ErrSyncAlreadyRunning = errors.New("a sync of this type is already in progress")

type facilityReconciler interface {
	ReconcileFacilities(ctx context.Context, feed []dtos.ExternalFacility) (*services.FacilityReconcileResult, error)
	ReconcileFacilityRooms(ctx context.Context, facilityExternalID int64, feed []dtos.ExternalRoom) (*entities.SyncCounters, error)
}

// FacilitySyncJob orchestrates one facility sync run: open ledger, fetch,
// reconcile, close ledger. Any failure closes the ledger FAILED and is
// re-raised to the caller.
type FacilitySyncJob struct {
	registry       services.RegistryClient
	reconciler     facilityReconciler
	ledger         services.SyncLedger
	metrics        *metrics.MetricsRegistry
	staleThreshold time.Duration

	group singleflight.Group
}

func NewFacilitySyncJob(
	registry services.RegistryClient,
	reconciler facilityReconciler,
	ledger services.SyncLedger,
	metricsReg *metrics.MetricsRegistry,
	staleThreshold time.Duration,
) *FacilitySyncJob {
	return &FacilitySyncJob{
		registry:       registry,
		reconciler:     reconciler,
		ledger:         ledger,
		metrics:        metricsReg,
		staleThreshold: staleThreshold,
	}
}

// Run executes one facility sync. Concurrent callers are coalesced: they all
// receive the same run's ledger row.
func (j *FacilitySyncJob) Run(ctx context.Context) (*entities.SyncLog, error) {
	val, err, _ := j.group.Do(constants.SyncTypeExamHalls, func() (interface{}, error) {
		return j.run(ctx)
	})

	log, _ := val.(*entities.SyncLog)
	return log, err
}

func (j *FacilitySyncJob) run(ctx context.Context) (*entities.SyncLog, error) {
	if err := checkNotRunning(ctx, j.ledger, constants.SyncTypeExamHalls, j.staleThreshold); err != nil {
		return nil, err
	}

	start := time.Now()
	entry, err := j.ledger.Start(ctx, constants.SyncTypeExamHalls, nil)
	if err != nil {
		return nil, err
	}

	log := logging.WithSync(constants.SyncTypeExamHalls, entry.ID)
	log.Infow("facility sync started")

	feed, err := j.registry.FetchExamHalls(ctx)
	if err != nil {
		return j.fail(ctx, entry.ID, start, "fetch exam halls", err)
	}

	log.Infow("fetched facilities from registry", "count", len(feed))

	result, err := j.reconciler.ReconcileFacilities(ctx, feed)
	if err != nil {
		return j.fail(ctx, entry.ID, start, "reconcile facilities", err)
	}

	closed, err := j.ledger.Complete(ctx, entry.ID, result.Facilities)
	if err != nil {
		return nil, err
	}

	// The feed delivers rooms nested in the same fetch; their counters get
	// their own ledger row so room churn stays visible per type.
	j.recordRoomPass(ctx, result.Rooms)

	j.observe(constants.SyncTypeExamHalls, constants.SyncStatusCompleted, start, result.Facilities)

	log.Infow("facility sync completed",
		"created", result.Facilities.Created,
		"updated", result.Facilities.Updated,
		"rooms_created", result.Rooms.Created,
		"rooms_updated", result.Rooms.Updated,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)

	return closed, nil
}

// RunRooms re-syncs the rooms of a single facility via the per-facility feed.
func (j *FacilitySyncJob) RunRooms(ctx context.Context, facilityExternalID int64) (*entities.SyncLog, error) {
	start := time.Now()
	entry, err := j.ledger.Start(ctx, constants.SyncTypeHallRooms, map[string]interface{}{
		"facility_external_id": facilityExternalID,
	})
	if err != nil {
		return nil, err
	}

	feed, err := j.registry.FetchHallRooms(ctx, facilityExternalID)
	if err != nil {
		return j.fail(ctx, entry.ID, start, "fetch hall rooms", err)
	}

	counters, err := j.reconciler.ReconcileFacilityRooms(ctx, facilityExternalID, feed)
	if err != nil {
		return j.fail(ctx, entry.ID, start, "reconcile hall rooms", err)
	}

	closed, err := j.ledger.Complete(ctx, entry.ID, *counters)
	if err != nil {
		return nil, err
	}

	j.observe(constants.SyncTypeHallRooms, constants.SyncStatusCompleted, start, *counters)
	return closed, nil
}

func (j *FacilitySyncJob) recordRoomPass(ctx context.Context, counters entities.SyncCounters) {
	entry, err := j.ledger.Start(ctx, constants.SyncTypeHallRooms, nil)
	if err != nil {
		logging.Warn("failed to open room-pass ledger row", "error", err.Error())
		return
	}
	if _, err := j.ledger.Complete(ctx, entry.ID, counters); err != nil {
		logging.Warn("failed to close room-pass ledger row", "error", err.Error())
	}
}

func (j *FacilitySyncJob) fail(ctx context.Context, entryID string, start time.Time, op string, cause error) (*entities.SyncLog, error) {
	details := errorDetails(op, cause)

	failed, ledgerErr := j.ledger.Fail(ctx, entryID, cause.Error(), details)
	if ledgerErr != nil {
		logging.Error("failed to close ledger row as FAILED",
			"ledger_id", entryID, "error", ledgerErr.Error())
	}

	j.observe(constants.SyncTypeExamHalls, constants.SyncStatusFailed, start, entities.SyncCounters{})
	return failed, cause
}

func (j *FacilitySyncJob) observe(syncType, status string, start time.Time, counters entities.SyncCounters) {
	if j.metrics == nil {
		return
	}
	j.metrics.RecordSyncRun(syncType, status, time.Since(start).Seconds(),
		counters.Created, counters.Updated, counters.Errored)
}
