package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/barangaylink/barangaylink-backend/internal/clients/redis"
	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/normalization"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/sse"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type TreasuryService interface {
	CreateAlbum(ctx context.Context, album *types.TreasuryAlbum) (*types.TreasuryAlbum, error)
	UpdateAlbum(ctx context.Context, album *types.TreasuryAlbum) (*types.TreasuryAlbum, error)
	GetAlbum(ctx context.Context, id uuid.UUID) (*types.TreasuryAlbum, error)
	ListAlbums(ctx context.Context, kind string, params repos.ListParams) ([]*types.TreasuryAlbum, int64, error)
	DeleteAlbum(ctx context.Context, id uuid.UUID) error

	AddDocument(ctx context.Context, doc *types.TreasuryDocument) (*types.TreasuryDocument, error)
	ListDocuments(ctx context.Context, albumID uuid.UUID) ([]*types.TreasuryDocument, error)
	DeleteDocument(ctx context.Context, albumID, docID uuid.UUID) error
}

type treasuryService struct {
	db           *gorm.DB
	log          *logger.Logger
	treasuryRepo repos.TreasuryRepo
	cache        redisclient.ListingCache
	hub          *sse.SSEHub
}

func NewTreasuryService(
	db *gorm.DB,
	log *logger.Logger,
	treasuryRepo repos.TreasuryRepo,
	cache redisclient.ListingCache,
	hub *sse.SSEHub,
) TreasuryService {
	return &treasuryService{
		db:           db,
		log:          log.With("service", "TreasuryService"),
		treasuryRepo: treasuryRepo,
		cache:        cache,
		hub:          hub,
	}
}

func (ts *treasuryService) CreateAlbum(ctx context.Context, album *types.TreasuryAlbum) (*types.TreasuryAlbum, error) {
	if err := validateAlbum(album); err != nil {
		return nil, err
	}
	album.ID = uuid.New()
	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ts.treasuryRepo.CreateAlbums(ctx, tx, []*types.TreasuryAlbum{album})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create treasury album: %w", err)
	}
	ts.notifyChanged(ctx)
	return album, nil
}

func (ts *treasuryService) UpdateAlbum(ctx context.Context, album *types.TreasuryAlbum) (*types.TreasuryAlbum, error) {
	existing, err := ts.GetAlbum(ctx, album.ID)
	if err != nil {
		return nil, err
	}
	if err := validateAlbum(album); err != nil {
		return nil, err
	}
	album.CreatedAt = existing.CreatedAt
	if err := ts.treasuryRepo.UpdateAlbum(ctx, nil, album); err != nil {
		return nil, fmt.Errorf("failed to update treasury album: %w", err)
	}
	ts.notifyChanged(ctx)
	return album, nil
}

func (ts *treasuryService) GetAlbum(ctx context.Context, id uuid.UUID) (*types.TreasuryAlbum, error) {
	found, err := ts.treasuryRepo.GetAlbumsByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch treasury album: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (ts *treasuryService) ListAlbums(ctx context.Context, kind string, params repos.ListParams) ([]*types.TreasuryAlbum, int64, error) {
	if kind != "" && kind != types.TreasuryAlbumIncome && kind != types.TreasuryAlbumDisbursement {
		return nil, 0, fmt.Errorf("album kind must be %s or %s", types.TreasuryAlbumIncome, types.TreasuryAlbumDisbursement)
	}
	return ts.treasuryRepo.ListAlbums(ctx, nil, kind, params)
}

func (ts *treasuryService) DeleteAlbum(ctx context.Context, id uuid.UUID) error {
	if _, err := ts.GetAlbum(ctx, id); err != nil {
		return err
	}
	if err := ts.treasuryRepo.DeleteAlbum(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete treasury album: %w", err)
	}
	ts.notifyChanged(ctx)
	return nil
}

func (ts *treasuryService) AddDocument(ctx context.Context, doc *types.TreasuryDocument) (*types.TreasuryDocument, error) {
	if _, err := ts.GetAlbum(ctx, doc.AlbumID); err != nil {
		return nil, err
	}
	doc.Title = normalization.TrimInput(doc.Title)
	if doc.Title == "" {
		return nil, fmt.Errorf("a document title is required")
	}
	if doc.Amount < 0 {
		return nil, fmt.Errorf("a document amount cannot be negative")
	}
	if doc.RecordedAt.IsZero() {
		doc.RecordedAt = time.Now()
	}
	doc.ID = uuid.New()
	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ts.treasuryRepo.CreateDocuments(ctx, tx, []*types.TreasuryDocument{doc})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to add treasury document: %w", err)
	}
	ts.notifyChanged(ctx)
	return doc, nil
}

func (ts *treasuryService) ListDocuments(ctx context.Context, albumID uuid.UUID) ([]*types.TreasuryDocument, error) {
	if _, err := ts.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}
	return ts.treasuryRepo.ListDocumentsByAlbum(ctx, nil, albumID)
}

func (ts *treasuryService) DeleteDocument(ctx context.Context, albumID, docID uuid.UUID) error {
	docs, err := ts.ListDocuments(ctx, albumID)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.ID == docID {
			if dErr := ts.treasuryRepo.DeleteDocument(ctx, nil, docID); dErr != nil {
				return fmt.Errorf("failed to delete treasury document: %w", dErr)
			}
			ts.notifyChanged(ctx)
			return nil
		}
	}
	return fmt.Errorf("document %s in album %s: %w", docID, albumID, ErrNotFound)
}

func validateAlbum(album *types.TreasuryAlbum) error {
	album.Title = normalization.TrimInput(album.Title)
	album.Period = normalization.TrimInput(album.Period)
	if album.Title == "" {
		return fmt.Errorf("an album title is required")
	}
	if album.Kind != types.TreasuryAlbumIncome && album.Kind != types.TreasuryAlbumDisbursement {
		return fmt.Errorf("album kind must be %s or %s", types.TreasuryAlbumIncome, types.TreasuryAlbumDisbursement)
	}
	return nil
}

func (ts *treasuryService) notifyChanged(ctx context.Context) {
	if ts.cache != nil {
		if err := ts.cache.Invalidate(ctx, sse.ChannelTreasury); err != nil {
			ts.log.Warn("Failed to invalidate treasury listings", "error", err)
		}
	}
	if ts.hub != nil {
		ts.hub.Broadcast(sse.SSEMessage{Channel: sse.ChannelTreasury, Event: sse.SSEEventTreasuryChanged})
	}
}
