package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type PregnancyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pregnancies []*types.Pregnancy) ([]*types.Pregnancy, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Pregnancy, error)
	ListByResidentIDs(ctx context.Context, tx *gorm.DB, residentIDs []uuid.UUID) ([]*types.Pregnancy, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Pregnancy, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type pregnancyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPregnancyRepo(db *gorm.DB, baseLog *logger.Logger) PregnancyRepo {
	repoLog := baseLog.With("repo", "PregnancyRepo")
	return &pregnancyRepo{db: db, log: repoLog}
}

func (pr *pregnancyRepo) Create(ctx context.Context, tx *gorm.DB, pregnancies []*types.Pregnancy) ([]*types.Pregnancy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(pregnancies) == 0 {
		return []*types.Pregnancy{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&pregnancies).Error; err != nil {
		return nil, err
	}
	return pregnancies, nil
}

func (pr *pregnancyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Pregnancy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Pregnancy
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *pregnancyRepo) ListByResidentIDs(ctx context.Context, tx *gorm.DB, residentIDs []uuid.UUID) ([]*types.Pregnancy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Pregnancy
	if len(residentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("resident_id IN ?", residentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *pregnancyRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Pregnancy, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Pregnancy
	if err := transaction.WithContext(ctx).
		Order("registered_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *pregnancyRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Pregnancy{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (pr *pregnancyRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Pregnancy{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
