package jobs

import (
	"context"
	"errors"
	"time"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/logging"
	"exam-supervision/proctorate/internal/providers"
	"exam-supervision/proctorate/internal/services"
)

// checkNotRunning refuses to start a run while the latest ledger row for the
// type is still IN_PROGRESS and younger than the stale threshold. A row older
// than the threshold belongs to a crashed run and no longer blocks.
func checkNotRunning(ctx context.Context, ledger services.SyncLedger, syncType string, staleThreshold time.Duration) error {
	latest, err := ledger.LatestByType(ctx, syncType)
	if err != nil {
		return err
	}
	if latest == nil || latest.Status != constants.SyncStatusInProgress {
		return nil
	}

	age := time.Since(latest.StartedAt)
	if staleThreshold > 0 && age > staleThreshold {
		logging.Warn("ignoring stale IN_PROGRESS ledger row",
			"sync_type", syncType,
			"ledger_id", latest.ID,
			"age", age.Truncate(time.Second).String(),
		)
		return nil
	}

	return ErrSyncAlreadyRunning
}

// errorDetails builds the structured error_details payload for a FAILED row.
func errorDetails(op string, cause error) map[string]interface{} {
	details := map[string]interface{}{
		"operation": op,
	}

	var srcErr *providers.SourceError
	var recErr *services.ReconciliationError

	switch {
	case errors.As(cause, &srcErr):
		details["kind"] = "source"
		details["code"] = srcErr.Code
	case errors.As(cause, &recErr):
		details["kind"] = "reconciliation"
		details["failed_op"] = recErr.Op
	default:
		details["kind"] = "internal"
	}

	return details
}
