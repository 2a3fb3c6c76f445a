package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type TreasuryRepo interface {
	CreateAlbums(ctx context.Context, tx *gorm.DB, albums []*types.TreasuryAlbum) ([]*types.TreasuryAlbum, error)
	UpdateAlbum(ctx context.Context, tx *gorm.DB, album *types.TreasuryAlbum) error
	GetAlbumsByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TreasuryAlbum, error)
	ListAlbums(ctx context.Context, tx *gorm.DB, kind string, params ListParams) ([]*types.TreasuryAlbum, int64, error)
	DeleteAlbum(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CreateDocuments(ctx context.Context, tx *gorm.DB, docs []*types.TreasuryDocument) ([]*types.TreasuryDocument, error)
	ListDocumentsByAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) ([]*types.TreasuryDocument, error)
	DeleteDocument(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountAlbums(ctx context.Context, tx *gorm.DB) (int64, error)
}

type treasuryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTreasuryRepo(db *gorm.DB, baseLog *logger.Logger) TreasuryRepo {
	repoLog := baseLog.With("repo", "TreasuryRepo")
	return &treasuryRepo{db: db, log: repoLog}
}

func (tr *treasuryRepo) CreateAlbums(ctx context.Context, tx *gorm.DB, albums []*types.TreasuryAlbum) ([]*types.TreasuryAlbum, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(albums) == 0 {
		return []*types.TreasuryAlbum{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&albums).Error; err != nil {
		return nil, err
	}
	return albums, nil
}

func (tr *treasuryRepo) UpdateAlbum(ctx context.Context, tx *gorm.DB, album *types.TreasuryAlbum) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Save(album).Error
}

func (tr *treasuryRepo) GetAlbumsByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TreasuryAlbum, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.TreasuryAlbum
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Documents").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *treasuryRepo) ListAlbums(ctx context.Context, tx *gorm.DB, kind string, params ListParams) ([]*types.TreasuryAlbum, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	query := transaction.WithContext(ctx).Model(&types.TreasuryAlbum{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(period) LIKE ?", pattern, pattern)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.TreasuryAlbum
	if err := query.
		Order("created_at DESC").
		Limit(params.Limit()).
		Offset(params.Offset()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (tr *treasuryRepo) DeleteAlbum(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.TreasuryAlbum{}).Error
}

func (tr *treasuryRepo) CreateDocuments(ctx context.Context, tx *gorm.DB, docs []*types.TreasuryDocument) ([]*types.TreasuryDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(docs) == 0 {
		return []*types.TreasuryDocument{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (tr *treasuryRepo) ListDocumentsByAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) ([]*types.TreasuryDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.TreasuryDocument
	if err := transaction.WithContext(ctx).
		Where("album_id = ?", albumID).
		Order("recorded_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *treasuryRepo) DeleteDocument(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.TreasuryDocument{}).Error
}

func (tr *treasuryRepo) CountAlbums(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.TreasuryAlbum{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
