package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangaylink/barangaylink-backend/internal/grouping"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/repos/testutil"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

func newOrdinanceService(t *testing.T) (OrdinanceService, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := repos.NewOrdinanceRepo(tx, log)
	return NewOrdinanceService(tx, log, repo, nil, nil), context.Background()
}

func TestOrdinanceFoldersLifecycle(t *testing.T) {
	svc, ctx := newOrdinanceService(t)

	root2, err := svc.Create(ctx, &types.Ordinance{Number: "ORD-2", Title: "Curfew hours"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &types.Ordinance{Number: "ORD-10", Title: "Market stall fees"})
	require.NoError(t, err)

	amendment, err := svc.Amend(ctx, root2.ID, &types.Ordinance{Number: "ORD-2-A", Title: "Curfew hours amendment"})
	require.NoError(t, err)
	assert.True(t, amendment.IsAmendment)
	assert.Equal(t, root2.ID, *amendment.ParentID)

	folders, err := svc.Folders(ctx, "")
	require.NoError(t, err)
	require.Len(t, folders, 2)

	// Natural ordering on the root number puts ORD-2 before ORD-10.
	assert.Equal(t, "ORD-2", folders[0].Root.Number)
	assert.Equal(t, "ORD-10", folders[1].Root.Number)
	assert.Equal(t, 2, folders[0].MemberCount)
	assert.Equal(t, amendment.ID.String(), folders[0].LatestID)
	assert.False(t, folders[0].HasRepeal)
	assert.Equal(t, grouping.StatusActive, folders[0].DerivedStatus)

	repeal, err := svc.Repeal(ctx, root2.ID, &types.Ordinance{Number: "ORD-2-R", Title: "Curfew hours repeal"})
	require.NoError(t, err)
	assert.True(t, repeal.IsRepeal)

	// The parent is marked repealed in the same transaction.
	reloaded, err := svc.Get(ctx, root2.ID)
	require.NoError(t, err)
	assert.Equal(t, types.OrdinanceStatusRepealed, reloaded.Status)

	folders, err = svc.Folders(ctx, "")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.True(t, folders[0].HasRepeal)
	assert.Equal(t, grouping.StatusLoss, folders[0].DerivedStatus)
	assert.Equal(t, 3, folders[0].MemberCount)
}

func TestOrdinanceDuplicateNumberRejected(t *testing.T) {
	svc, ctx := newOrdinanceService(t)

	_, err := svc.Create(ctx, &types.Ordinance{Number: "ORD-7", Title: "Waste segregation"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &types.Ordinance{Number: "ORD-7", Title: "Duplicate"})
	assert.Error(t, err)
}

func TestAmendRejectsNonRootParent(t *testing.T) {
	svc, ctx := newOrdinanceService(t)

	root, err := svc.Create(ctx, &types.Ordinance{Number: "ORD-4", Title: "Anti-littering"})
	require.NoError(t, err)
	amendment, err := svc.Amend(ctx, root.ID, &types.Ordinance{Number: "ORD-4-A", Title: "Amendment"})
	require.NoError(t, err)

	_, err = svc.Amend(ctx, amendment.ID, &types.Ordinance{Number: "ORD-4-B", Title: "Nested"})
	assert.Error(t, err)
}

func TestOrdinanceCreateKeepsEnteredCasing(t *testing.T) {
	svc, ctx := newOrdinanceService(t)

	created, err := svc.Create(ctx, &types.Ordinance{Number: " ORD-2024-15 ", Title: "  Anti-Littering Ordinance "})
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2024-15", reloaded.Number)
	assert.Equal(t, "Anti-Littering Ordinance", reloaded.Title)
}

func TestOrdinanceCreateRequiresNumberAndTitle(t *testing.T) {
	svc, ctx := newOrdinanceService(t)

	_, err := svc.Create(ctx, &types.Ordinance{Number: "   ", Title: "No number"})
	assert.Error(t, err)
	_, err = svc.Create(ctx, &types.Ordinance{Number: "ORD-9", Title: ""})
	assert.Error(t, err)
}
