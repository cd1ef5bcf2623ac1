package jobs

import (
	"context"
	"time"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/logging"
	"exam-supervision/proctorate/internal/metrics"
	"exam-supervision/proctorate/internal/models/dtos"
	"exam-supervision/proctorate/internal/models/entities"
	"exam-supervision/proctorate/internal/services"

	"golang.org/x/sync/singleflight"
)

type participantReconciler interface {
	ReconcileParticipants(ctx context.Context, examDate time.Time, slots []dtos.TimeSlotOccupancy) (*entities.SyncCounters, error)
}

// ParticipantSyncJob orchestrates participant-occupancy syncs. A single
// date's run is all-or-nothing; the multi-date window deliberately isolates
// failures per date so one bad day cannot abort the rest of the schedule.
type ParticipantSyncJob struct {
	registry       services.RegistryClient
	reconciler     participantReconciler
	ledger         services.SyncLedger
	metrics        *metrics.MetricsRegistry
	staleThreshold time.Duration

	group singleflight.Group
}

func NewParticipantSyncJob(
	registry services.RegistryClient,
	reconciler participantReconciler,
	ledger services.SyncLedger,
	metricsReg *metrics.MetricsRegistry,
	staleThreshold time.Duration,
) *ParticipantSyncJob {
	return &ParticipantSyncJob{
		registry:       registry,
		reconciler:     reconciler,
		ledger:         ledger,
		metrics:        metricsReg,
		staleThreshold: staleThreshold,
	}
}

// RunDate executes one date's participant sync. Concurrent triggers for the
// same date are coalesced.
func (j *ParticipantSyncJob) RunDate(ctx context.Context, examDate time.Time) (*entities.SyncLog, error) {
	key := constants.SyncTypeParticipants + ":" + examDate.Format(constants.DateFormat)

	val, err, _ := j.group.Do(key, func() (interface{}, error) {
		return j.runDate(ctx, examDate)
	})

	log, _ := val.(*entities.SyncLog)
	return log, err
}

func (j *ParticipantSyncJob) runDate(ctx context.Context, examDate time.Time) (*entities.SyncLog, error) {
	if err := checkNotRunning(ctx, j.ledger, constants.SyncTypeParticipants, j.staleThreshold); err != nil {
		return nil, err
	}

	start := time.Now()
	dateStr := examDate.Format(constants.DateFormat)

	entry, err := j.ledger.Start(ctx, constants.SyncTypeParticipants, map[string]interface{}{
		"exam_date": dateStr,
	})
	if err != nil {
		return nil, err
	}

	log := logging.WithSync(constants.SyncTypeParticipants, entry.ID)
	log.Infow("participant sync started", "exam_date", dateStr)

	slots, err := j.registry.FetchRoomParticipants(ctx, examDate)
	if err != nil {
		return j.fail(ctx, entry.ID, start, "fetch room participants", err)
	}

	counters, err := j.reconciler.ReconcileParticipants(ctx, examDate, slots)
	if err != nil {
		return j.fail(ctx, entry.ID, start, "reconcile participants", err)
	}

	closed, err := j.ledger.Complete(ctx, entry.ID, *counters)
	if err != nil {
		return nil, err
	}

	j.observe(constants.SyncStatusCompleted, start, *counters)

	log.Infow("participant sync completed",
		"exam_date", dateStr,
		"created", counters.Created,
		"updated", counters.Updated,
		"errored", counters.Errored,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)

	return closed, nil
}

// RunWindow syncs `days` consecutive calendar dates starting today,
// sequentially. A failed date is logged and left FAILED in the ledger; later
// dates still run.
func (j *ParticipantSyncJob) RunWindow(ctx context.Context, days int) {
	start := time.Now()
	today := time.Now().Truncate(24 * time.Hour)

	logging.Info("participant window sync started", "days", days)

	for i := 0; i < days; i++ {
		examDate := today.AddDate(0, 0, i)

		if _, err := j.RunDate(ctx, examDate); err != nil {
			logging.Error("participant sync failed for date",
				"exam_date", examDate.Format(constants.DateFormat),
				"error", err.Error(),
			)
			// Per-date isolation: keep going.
			continue
		}
	}

	logging.Info("participant window sync finished",
		"days", days,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)
}

func (j *ParticipantSyncJob) fail(ctx context.Context, entryID string, start time.Time, op string, cause error) (*entities.SyncLog, error) {
	details := errorDetails(op, cause)

	failed, ledgerErr := j.ledger.Fail(ctx, entryID, cause.Error(), details)
	if ledgerErr != nil {
		logging.Error("failed to close ledger row as FAILED",
			"ledger_id", entryID, "error", ledgerErr.Error())
	}

	j.observe(constants.SyncStatusFailed, start, entities.SyncCounters{})
	return failed, cause
}

func (j *ParticipantSyncJob) observe(status string, start time.Time, counters entities.SyncCounters) {
	if j.metrics == nil {
		return
	}
	j.metrics.RecordSyncRun(constants.SyncTypeParticipants, status, time.Since(start).Seconds(),
		counters.Created, counters.Updated, counters.Errored)
}
