package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type MaternalRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.MaternalRecord) ([]*types.MaternalRecord, error)
	Update(ctx context.Context, tx *gorm.DB, record *types.MaternalRecord) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MaternalRecord, error)
	ListByPregnancyIDs(ctx context.Context, tx *gorm.DB, pregnancyIDs []uuid.UUID) ([]*types.MaternalRecord, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MaternalRecord, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type maternalRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMaternalRecordRepo(db *gorm.DB, baseLog *logger.Logger) MaternalRecordRepo {
	repoLog := baseLog.With("repo", "MaternalRecordRepo")
	return &maternalRecordRepo{db: db, log: repoLog}
}

func (mr *maternalRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.MaternalRecord) ([]*types.MaternalRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(records) == 0 {
		return []*types.MaternalRecord{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (mr *maternalRecordRepo) Update(ctx context.Context, tx *gorm.DB, record *types.MaternalRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Save(record).Error
}

func (mr *maternalRecordRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MaternalRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MaternalRecord
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

func (mr *maternalRecordRepo) ListByPregnancyIDs(ctx context.Context, tx *gorm.DB, pregnancyIDs []uuid.UUID) ([]*types.MaternalRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MaternalRecord
	if len(pregnancyIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("pregnancy_id IN ?", pregnancyIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *maternalRecordRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MaternalRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MaternalRecord
	if err := transaction.WithContext(ctx).
		Order("checkup_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *maternalRecordRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.MaternalRecord{}).Error
}
