package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/grouping"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/repos/testutil"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

func newMaternalService(t *testing.T) (MaternalService, *gorm.DB, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewMaternalService(tx, log,
		repos.NewPregnancyRepo(tx, log),
		repos.NewMaternalRecordRepo(tx, log),
		repos.NewResidentRepo(tx, log),
		nil, nil)
	return svc, tx, context.Background()
}

func TestPregnancyLifecycle(t *testing.T) {
	svc, tx, ctx := newMaternalService(t)
	resident := testutil.SeedResident(t, ctx, tx, "Reyes")

	pregnancy, err := svc.RegisterPregnancy(ctx, &types.Pregnancy{ResidentID: resident.ID})
	require.NoError(t, err)
	assert.Equal(t, types.PregnancyStatusActive, pregnancy.Status)

	prenatal, err := svc.AddRecord(ctx, &types.MaternalRecord{
		PregnancyID: pregnancy.ID,
		RecordType:  types.MaternalRecordPrenatal,
		CheckupDate: time.Now().AddDate(0, -2, 0),
	})
	require.NoError(t, err)
	postpartum, err := svc.AddRecord(ctx, &types.MaternalRecord{
		PregnancyID: pregnancy.ID,
		RecordType:  types.MaternalRecordPostpartum,
		CheckupDate: time.Now(),
	})
	require.NoError(t, err)

	groups, err := svc.GroupedPregnancies(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, pregnancy.ID.String(), groups[0].GroupKey)
	assert.Equal(t, 2, groups[0].MemberCount)
	assert.Equal(t, grouping.StatusActive, groups[0].DerivedStatus)

	// Postpartum sorts ahead of prenatal, so it is the newest record.
	assert.Equal(t, postpartum.ID.String(), groups[0].LatestRecordID)

	err = svc.MarkCompleted(ctx, pregnancy.ID, prenatal.ID)
	require.ErrorIs(t, err, ErrNotLatestRecord)

	err = svc.MarkCompleted(ctx, pregnancy.ID, postpartum.ID)
	require.NoError(t, err)

	reloaded, err := svc.GetPregnancy(ctx, pregnancy.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PregnancyStatusCompleted, reloaded.Status)

	// Completed is terminal: no further records, no further transitions.
	_, err = svc.AddRecord(ctx, &types.MaternalRecord{
		PregnancyID: pregnancy.ID,
		RecordType:  types.MaternalRecordPostpartum,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	err = svc.MarkLoss(ctx, pregnancy.ID, postpartum.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRegisterPregnancyUnknownResident(t *testing.T) {
	svc, _, ctx := newMaternalService(t)

	_, err := svc.RegisterPregnancy(ctx, &types.Pregnancy{ResidentID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRecordRejectsUnknownType(t *testing.T) {
	svc, tx, ctx := newMaternalService(t)
	resident := testutil.SeedResident(t, ctx, tx, "Santos")
	pregnancy, err := svc.RegisterPregnancy(ctx, &types.Pregnancy{ResidentID: resident.ID})
	require.NoError(t, err)

	_, err = svc.AddRecord(ctx, &types.MaternalRecord{
		PregnancyID: pregnancy.ID,
		RecordType:  "Wellness",
	})
	assert.Error(t, err)
}
