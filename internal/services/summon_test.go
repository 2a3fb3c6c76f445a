package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/repos/testutil"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

func newSummonService(t *testing.T) (SummonService, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return NewSummonService(tx, log, repos.NewSummonCaseRepo(tx, log), nil, nil, nil), context.Background()
}

func fileCase(t *testing.T, svc SummonService, ctx context.Context, number string) *types.SummonCase {
	t.Helper()
	filed, err := svc.FileCase(ctx, &types.SummonCase{
		CaseNumber: number,
		Nature:     "Boundary dispute",
	}, []string{"Juan Dela Cruz"}, []string{"Pedro Santos"})
	require.NoError(t, err)
	return filed
}

func TestFileCaseValidation(t *testing.T) {
	svc, ctx := newSummonService(t)

	_, err := svc.FileCase(ctx, &types.SummonCase{Nature: "noise"}, []string{"A"}, []string{"B"})
	assert.Error(t, err, "missing case number")

	_, err = svc.FileCase(ctx, &types.SummonCase{CaseNumber: "LUP-2026-001"}, nil, []string{"B"})
	assert.Error(t, err, "missing complainants")

	fileCase(t, svc, ctx, "LUP-2026-002")
	_, err = svc.FileCase(ctx, &types.SummonCase{CaseNumber: "LUP-2026-002"}, []string{"A"}, []string{"B"})
	assert.Error(t, err, "duplicate case number")
}

func TestHearingLimit(t *testing.T) {
	svc, ctx := newSummonService(t)
	filed := fileCase(t, svc, ctx, "LUP-2026-010")
	when := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < types.MaxHearingsPerCase; i++ {
		hearing, err := svc.ScheduleHearing(ctx, filed.ID, when.AddDate(0, 0, i*7), "Barangay hall")
		require.NoError(t, err)
		assert.Equal(t, i+1, hearing.Number)
	}

	_, err := svc.ScheduleHearing(ctx, filed.ID, when.AddDate(0, 1, 0), "Barangay hall")
	require.ErrorIs(t, err, ErrHearingLimit)

	reloaded, err := svc.Get(ctx, filed.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SummonCaseScheduled, reloaded.Status)
}

func TestEscalateRequiresExhaustedHearings(t *testing.T) {
	svc, ctx := newSummonService(t)
	filed := fileCase(t, svc, ctx, "LUP-2026-020")
	when := time.Date(2026, 9, 21, 9, 0, 0, 0, time.UTC)

	_, err := svc.ScheduleHearing(ctx, filed.ID, when, "Barangay hall")
	require.NoError(t, err)

	err = svc.Escalate(ctx, filed.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	for i := 1; i < types.MaxHearingsPerCase; i++ {
		_, err = svc.ScheduleHearing(ctx, filed.ID, when.AddDate(0, 0, i*7), "Barangay hall")
		require.NoError(t, err)
	}
	require.NoError(t, svc.Escalate(ctx, filed.ID))

	reloaded, err := svc.Get(ctx, filed.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SummonCaseEscalated, reloaded.Status)
}

func TestClosedCaseRejectsFurtherActions(t *testing.T) {
	svc, ctx := newSummonService(t)
	filed := fileCase(t, svc, ctx, "LUP-2026-030")

	require.NoError(t, svc.Settle(ctx, filed.ID))

	_, err := svc.ScheduleHearing(ctx, filed.ID, time.Now().AddDate(0, 0, 7), "Barangay hall")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, svc.Settle(ctx, filed.ID), ErrInvalidTransition)
	assert.ErrorIs(t, svc.Escalate(ctx, filed.ID), ErrInvalidTransition)
}

func TestRecordOutcome(t *testing.T) {
	svc, ctx := newSummonService(t)
	filed := fileCase(t, svc, ctx, "LUP-2026-040")
	hearing, err := svc.ScheduleHearing(ctx, filed.ID, time.Now().AddDate(0, 0, 7), "Barangay hall")
	require.NoError(t, err)

	require.NoError(t, svc.RecordOutcome(ctx, filed.ID, hearing.ID, "No appearance by respondent"))

	reloaded, err := svc.Get(ctx, filed.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Hearings, 1)
	assert.Equal(t, "No appearance by respondent", reloaded.Hearings[0].Outcome)
}
