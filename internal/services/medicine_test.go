package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	redisclient "github.com/barangaylink/barangaylink-backend/internal/clients/redis"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/repos/testutil"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

// draftOnlyService is enough for the draft operations, which never
// touch the database.
func draftOnlyService(t *testing.T) MedicineService {
	t.Helper()
	log := testutil.Logger(t)
	return NewMedicineService(nil, log, nil, nil, nil, redisclient.NewMemoryDraftStore(), nil, nil)
}

func newMedicineService(t *testing.T) (MedicineService, *gorm.DB, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewMedicineService(tx, log,
		repos.NewMedicineItemRepo(tx, log),
		repos.NewMedicineRequestRepo(tx, log),
		repos.NewResidentRepo(tx, log),
		redisclient.NewMemoryDraftStore(),
		nil, nil)
	return svc, tx, context.Background()
}

func TestSaveDraftMergesDuplicateLines(t *testing.T) {
	svc := draftOnlyService(t)
	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()

	err := svc.SaveDraft(ctx, userID, []redisclient.DraftItem{
		{MedicineItemID: itemID, Quantity: 2},
		{MedicineItemID: itemID, Quantity: 3},
	})
	require.NoError(t, err)

	draft, err := svc.GetDraft(ctx, userID)
	require.NoError(t, err)
	require.Len(t, draft, 1)
	assert.Equal(t, 5, draft[0].Quantity)
}

func TestSaveDraftRejectsNonPositiveQuantity(t *testing.T) {
	svc := draftOnlyService(t)

	err := svc.SaveDraft(context.Background(), uuid.New(), []redisclient.DraftItem{
		{MedicineItemID: uuid.New(), Quantity: 0},
	})
	assert.Error(t, err)
}

func TestSubmitRequestEmptyDraft(t *testing.T) {
	svc := draftOnlyService(t)

	_, err := svc.SubmitRequest(context.Background(), uuid.New(), uuid.New(), "fever")
	assert.ErrorIs(t, err, ErrEmptyDraft)
}

func TestMedicineRequestFlow(t *testing.T) {
	svc, tx, ctx := newMedicineService(t)
	resident := testutil.SeedResident(t, ctx, tx, "Garcia")
	item := testutil.SeedMedicineItem(t, ctx, tx, "Paracetamol 500mg", 10)
	userID := uuid.New()

	require.NoError(t, svc.SaveDraft(ctx, userID, []redisclient.DraftItem{
		{MedicineItemID: item.ID, Quantity: 4},
	}))

	request, err := svc.SubmitRequest(ctx, userID, resident.ID, "fever")
	require.NoError(t, err)
	assert.Equal(t, types.MedicineRequestPending, request.Status)

	// The draft is consumed on submit.
	draft, err := svc.GetDraft(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, draft)

	// pending -> released skips approval and is rejected.
	_, err = svc.ReleaseRequest(ctx, request.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	approved, err := svc.ApproveRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MedicineRequestApproved, approved.Status)

	released, err := svc.ReleaseRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MedicineRequestReleased, released.Status)

	stocked, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stocked.StockQuantity)
}

func TestReleaseRollsBackOnShortStock(t *testing.T) {
	svc, tx, ctx := newMedicineService(t)
	resident := testutil.SeedResident(t, ctx, tx, "Lopez")
	item := testutil.SeedMedicineItem(t, ctx, tx, "Amoxicillin 250mg", 3)
	userID := uuid.New()

	require.NoError(t, svc.SaveDraft(ctx, userID, []redisclient.DraftItem{
		{MedicineItemID: item.ID, Quantity: 5},
	}))
	request, err := svc.SubmitRequest(ctx, userID, resident.ID, "infection")
	require.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, request.ID)
	require.NoError(t, err)

	_, err = svc.ReleaseRequest(ctx, request.ID)
	require.Error(t, err)

	// Nothing moved: stock intact, request still approved.
	stocked, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stocked.StockQuantity)
	reloaded, err := svc.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MedicineRequestApproved, reloaded.Status)
}

func TestRejectOnlyFromPending(t *testing.T) {
	svc, tx, ctx := newMedicineService(t)
	resident := testutil.SeedResident(t, ctx, tx, "Cruz")
	item := testutil.SeedMedicineItem(t, ctx, tx, "Cetirizine 10mg", 20)
	userID := uuid.New()

	require.NoError(t, svc.SaveDraft(ctx, userID, []redisclient.DraftItem{
		{MedicineItemID: item.ID, Quantity: 1},
	}))
	request, err := svc.SubmitRequest(ctx, userID, resident.ID, "allergy")
	require.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, request.ID)
	require.NoError(t, err)

	_, err = svc.RejectRequest(ctx, request.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
