package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type SummonCaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cases []*types.SummonCase) ([]*types.SummonCase, error)
	Update(ctx context.Context, tx *gorm.DB, summonCase *types.SummonCase) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SummonCase, error)
	CaseNumberExists(ctx context.Context, tx *gorm.DB, caseNumber string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, status string, params ListParams) ([]*types.SummonCase, int64, error)
	CreateHearings(ctx context.Context, tx *gorm.DB, hearings []*types.SummonHearing) ([]*types.SummonHearing, error)
	UpdateHearing(ctx context.Context, tx *gorm.DB, hearing *types.SummonHearing) error
	CountHearings(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type summonCaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummonCaseRepo(db *gorm.DB, baseLog *logger.Logger) SummonCaseRepo {
	repoLog := baseLog.With("repo", "SummonCaseRepo")
	return &summonCaseRepo{db: db, log: repoLog}
}

func (sr *summonCaseRepo) Create(ctx context.Context, tx *gorm.DB, cases []*types.SummonCase) ([]*types.SummonCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(cases) == 0 {
		return []*types.SummonCase{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (sr *summonCaseRepo) Update(ctx context.Context, tx *gorm.DB, summonCase *types.SummonCase) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(summonCase).Error
}

func (sr *summonCaseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SummonCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.SummonCase
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Hearings", func(db *gorm.DB) *gorm.DB {
			return db.Order("summon_hearing.number ASC")
		}).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *summonCaseRepo) CaseNumberExists(ctx context.Context, tx *gorm.DB, caseNumber string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SummonCase{}).
		Where("case_number = ?", caseNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *summonCaseRepo) List(ctx context.Context, tx *gorm.DB, status string, params ListParams) ([]*types.SummonCase, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	query := transaction.WithContext(ctx).Model(&types.SummonCase{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(case_number) LIKE ? OR LOWER(nature) LIKE ?", pattern, pattern)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.SummonCase
	if err := query.
		Preload("Hearings").
		Order("filed_at DESC").
		Limit(params.Limit()).
		Offset(params.Offset()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (sr *summonCaseRepo) CreateHearings(ctx context.Context, tx *gorm.DB, hearings []*types.SummonHearing) ([]*types.SummonHearing, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(hearings) == 0 {
		return []*types.SummonHearing{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&hearings).Error; err != nil {
		return nil, err
	}
	return hearings, nil
}

func (sr *summonCaseRepo) UpdateHearing(ctx context.Context, tx *gorm.DB, hearing *types.SummonHearing) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(hearing).Error
}

func (sr *summonCaseRepo) CountHearings(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SummonHearing{}).
		Where("case_id = ?", caseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *summonCaseRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.SummonCase{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
