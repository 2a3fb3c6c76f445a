package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type ResidentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, residents []*types.Resident) ([]*types.Resident, error)
	Update(ctx context.Context, tx *gorm.DB, resident *types.Resident) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Resident, error)
	List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.Resident, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type residentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResidentRepo(db *gorm.DB, baseLog *logger.Logger) ResidentRepo {
	repoLog := baseLog.With("repo", "ResidentRepo")
	return &residentRepo{db: db, log: repoLog}
}

func (rr *residentRepo) Create(ctx context.Context, tx *gorm.DB, residents []*types.Resident) ([]*types.Resident, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(residents) == 0 {
		return []*types.Resident{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

func (rr *residentRepo) Update(ctx context.Context, tx *gorm.DB, resident *types.Resident) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Save(resident).Error
}

func (rr *residentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Resident, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Resident
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

func (rr *residentRepo) List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.Resident, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Resident{})
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern, pattern)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.Resident
	if err := query.
		Order("last_name ASC, first_name ASC").
		Limit(params.Limit()).
		Offset(params.Offset()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (rr *residentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Resident{}).Error
}

func (rr *residentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Resident{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
