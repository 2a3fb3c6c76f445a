package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type OrdinanceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ordinances []*types.Ordinance) ([]*types.Ordinance, error)
	Update(ctx context.Context, tx *gorm.DB, ordinance *types.Ordinance) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Ordinance, error)
	NumberExists(ctx context.Context, tx *gorm.DB, number string) (bool, error)
	ListAll(ctx context.Context, tx *gorm.DB, search string) ([]*types.Ordinance, error)
	List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.Ordinance, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type ordinanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrdinanceRepo(db *gorm.DB, baseLog *logger.Logger) OrdinanceRepo {
	repoLog := baseLog.With("repo", "OrdinanceRepo")
	return &ordinanceRepo{db: db, log: repoLog}
}

func (or *ordinanceRepo) Create(ctx context.Context, tx *gorm.DB, ordinances []*types.Ordinance) ([]*types.Ordinance, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if len(ordinances) == 0 {
		return []*types.Ordinance{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&ordinances).Error; err != nil {
		return nil, err
	}
	return ordinances, nil
}

func (or *ordinanceRepo) Update(ctx context.Context, tx *gorm.DB, ordinance *types.Ordinance) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).Save(ordinance).Error
}

func (or *ordinanceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Ordinance, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.Ordinance
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

func (or *ordinanceRepo) NumberExists(ctx context.Context, tx *gorm.DB, number string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Ordinance{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAll returns the full filtered ordinance set; the folder grouping
// needs every record so parent links resolve within the page.
func (or *ordinanceRepo) ListAll(ctx context.Context, tx *gorm.DB, search string) ([]*types.Ordinance, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	query := transaction.WithContext(ctx).Model(&types.Ordinance{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}
	var results []*types.Ordinance
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *ordinanceRepo) List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.Ordinance, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	query := transaction.WithContext(ctx).Model(&types.Ordinance{})
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.Ordinance
	if err := query.
		Order("created_at DESC").
		Limit(params.Limit()).
		Offset(params.Offset()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (or *ordinanceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Ordinance{}).Error
}

func (or *ordinanceRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Ordinance{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
