package responses

import "exam-supervision/proctorate/internal/models/entities"

// SyncRunResult is the payload returned by the manual trigger endpoints once
// the run's ledger row has been closed.
type SyncRunResult struct {
	SyncType         string `json:"sync_type"`
	Status           string `json:"status"`
	RecordsProcessed int    `json:"records_processed"`
	RecordsCreated   int    `json:"records_created"`
	RecordsUpdated   int    `json:"records_updated"`
	RecordsErrored   int    `json:"records_errored"`
	DurationMs       int64  `json:"duration_ms"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// NewSyncRunResult maps a closed ledger row onto the API shape.
func NewSyncRunResult(l *entities.SyncLog) *SyncRunResult {
	res := &SyncRunResult{
		SyncType:         l.SyncType,
		Status:           l.Status,
		RecordsProcessed: l.RecordsProcessed,
		RecordsCreated:   l.RecordsCreated,
		RecordsUpdated:   l.RecordsUpdated,
		RecordsErrored:   l.RecordsErrored,
		DurationMs:       l.Duration().Milliseconds(),
	}
	if l.ErrorMessage != nil {
		res.ErrorMessage = *l.ErrorMessage
	}
	return res
}

// WindowAck acknowledges a fire-and-report window sync trigger. Per-date
// outcomes land in the ledger, not in this response.
type WindowAck struct {
	Message string `json:"message"`
	Days    int    `json:"days"`
}

// SyncStatusResponse is the latest ledger row per sync type.
type SyncStatusResponse struct {
	Latest map[string]*entities.SyncLog `json:"latest"`
}

// SyncHistoryResponse lists recent ledger rows, newest first.
type SyncHistoryResponse struct {
	Runs []entities.SyncLog `json:"runs"`
}
