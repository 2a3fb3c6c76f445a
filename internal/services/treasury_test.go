package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/repos/testutil"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

func newTreasuryService(t *testing.T) (TreasuryService, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return NewTreasuryService(tx, log, repos.NewTreasuryRepo(tx, log), nil, nil), context.Background()
}

func TestCreateAlbumValidation(t *testing.T) {
	svc, ctx := newTreasuryService(t)

	_, err := svc.CreateAlbum(ctx, &types.TreasuryAlbum{Kind: types.TreasuryAlbumIncome})
	assert.Error(t, err, "missing title")

	_, err = svc.CreateAlbum(ctx, &types.TreasuryAlbum{Title: "Q3 Collections", Kind: "ledger"})
	assert.Error(t, err, "unknown kind")

	album, err := svc.CreateAlbum(ctx, &types.TreasuryAlbum{
		Title:  "Q3 Collections",
		Kind:   types.TreasuryAlbumIncome,
		Period: "2026-Q3",
	})
	require.NoError(t, err)
	assert.Equal(t, "Q3 Collections", album.Title)
}

func TestDocumentLifecycle(t *testing.T) {
	svc, ctx := newTreasuryService(t)
	album, err := svc.CreateAlbum(ctx, &types.TreasuryAlbum{
		Title: "August Disbursements",
		Kind:  types.TreasuryAlbumDisbursement,
	})
	require.NoError(t, err)

	_, err = svc.AddDocument(ctx, &types.TreasuryDocument{AlbumID: album.ID, Amount: 100})
	assert.Error(t, err, "missing document title")

	_, err = svc.AddDocument(ctx, &types.TreasuryDocument{
		AlbumID: album.ID,
		Title:   "Street light repair",
		Amount:  -5,
	})
	assert.Error(t, err, "negative amount")

	doc, err := svc.AddDocument(ctx, &types.TreasuryDocument{
		AlbumID: album.ID,
		Title:   "Street light repair",
		Amount:  4500,
	})
	require.NoError(t, err)
	assert.False(t, doc.RecordedAt.IsZero())

	docs, err := svc.ListDocuments(ctx, album.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// A document can only be removed through its own album.
	other, err := svc.CreateAlbum(ctx, &types.TreasuryAlbum{
		Title: "September Disbursements",
		Kind:  types.TreasuryAlbumDisbursement,
	})
	require.NoError(t, err)
	err = svc.DeleteDocument(ctx, other.ID, doc.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteDocument(ctx, album.ID, doc.ID))
	docs, err = svc.ListDocuments(ctx, album.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
