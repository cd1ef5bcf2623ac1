package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/models/dtos"
	"exam-supervision/proctorate/internal/models/entities"
	"exam-supervision/proctorate/internal/providers"
)

func TestParticipantSyncJob_RunDate_RecordsExamDate(t *testing.T) {
	ledger := &fakeLedger{}
	examDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	registry := &fakeRegistry{
		participants: map[string][]dtos.TimeSlotOccupancy{
			"2026-09-01": {{StartTime: "09:00"}},
		},
	}
	reconciler := &fakeParticipantReconciler{
		counters: &entities.SyncCounters{Processed: 3, Created: 3},
	}

	job := NewParticipantSyncJob(registry, reconciler, ledger, nil, time.Hour)

	closed, err := job.RunDate(context.Background(), examDate)
	require.NoError(t, err)
	require.Equal(t, constants.SyncStatusCompleted, closed.Status)
	require.Equal(t, 3, closed.RecordsCreated)
	require.NotNil(t, closed.Metadata)
	require.Contains(t, *closed.Metadata, "2026-09-01")
	require.Equal(t, []string{"2026-09-01"}, reconciler.dates)
}

func TestParticipantSyncJob_RunDate_SkipsWhileFreshRunInProgress(t *testing.T) {
	ledger := &fakeLedger{}
	_, err := ledger.Start(context.Background(), constants.SyncTypeParticipants, nil)
	require.NoError(t, err)

	job := NewParticipantSyncJob(&fakeRegistry{}, &fakeParticipantReconciler{}, ledger, nil, time.Hour)

	_, err = job.RunDate(context.Background(), time.Now())
	require.ErrorIs(t, err, ErrSyncAlreadyRunning)
}

func TestParticipantSyncJob_RunWindow_IsolatesFailedDates(t *testing.T) {
	ledger := &fakeLedger{}
	today := time.Now().Truncate(24 * time.Hour)
	day2 := today.AddDate(0, 0, 1).Format(constants.DateFormat)

	registry := &fakeRegistry{
		participants: map[string][]dtos.TimeSlotOccupancy{},
		participantsErr: map[string]error{
			day2: &providers.SourceError{Code: constants.ErrCodeNetworkError, Message: "timeout"},
		},
	}
	reconciler := &fakeParticipantReconciler{counters: &entities.SyncCounters{}}

	job := NewParticipantSyncJob(registry, reconciler, ledger, nil, time.Hour)
	job.RunWindow(context.Background(), 3)

	rows := ledger.byType(constants.SyncTypeParticipants)
	require.Len(t, rows, 3, "each date gets its own ledger row")
	require.Equal(t, constants.SyncStatusCompleted, rows[0].Status)
	require.Equal(t, constants.SyncStatusFailed, rows[1].Status)
	require.Equal(t, constants.SyncStatusCompleted, rows[2].Status,
		"a failed middle date must not abort the remaining dates")

	// Day 2 never reached reconciliation.
	require.Equal(t, []string{
		today.Format(constants.DateFormat),
		today.AddDate(0, 0, 2).Format(constants.DateFormat),
	}, reconciler.dates)
}

func TestParticipantSyncJob_RunWindow_FailedDateRowCarriesDetails(t *testing.T) {
	ledger := &fakeLedger{}
	today := time.Now().Truncate(24 * time.Hour)

	registry := &fakeRegistry{
		participantsErr: map[string]error{
			today.Format(constants.DateFormat): &providers.SourceError{
				Code: constants.ErrCodeRateLimited, Message: "slow down",
			},
		},
	}

	job := NewParticipantSyncJob(registry, &fakeParticipantReconciler{}, ledger, nil, time.Hour)
	job.RunWindow(context.Background(), 1)

	rows := ledger.byType(constants.SyncTypeParticipants)
	require.Len(t, rows, 1)
	require.Equal(t, constants.SyncStatusFailed, rows[0].Status)
	require.NotNil(t, rows[0].ErrorMessage)
	require.Contains(t, *rows[0].ErrorDetails, constants.ErrCodeRateLimited)
}
