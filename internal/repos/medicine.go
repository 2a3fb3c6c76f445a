package repos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type MedicineItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.MedicineItem) ([]*types.MedicineItem, error)
	Update(ctx context.Context, tx *gorm.DB, item *types.MedicineItem) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MedicineItem, error)
	List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.MedicineItem, int64, error)
	AdjustStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type medicineItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMedicineItemRepo(db *gorm.DB, baseLog *logger.Logger) MedicineItemRepo {
	repoLog := baseLog.With("repo", "MedicineItemRepo")
	return &medicineItemRepo{db: db, log: repoLog}
}

func (ir *medicineItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.MedicineItem) ([]*types.MedicineItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(items) == 0 {
		return []*types.MedicineItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (ir *medicineItemRepo) Update(ctx context.Context, tx *gorm.DB, item *types.MedicineItem) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).Save(item).Error
}

func (ir *medicineItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MedicineItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.MedicineItem
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

func (ir *medicineItemRepo) List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.MedicineItem, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	query := transaction.WithContext(ctx).Model(&types.MedicineItem{})
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.MedicineItem
	if err := query.
		Order("name ASC").
		Limit(params.Limit()).
		Offset(params.Offset()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// AdjustStock applies a relative stock change, refusing to go negative.
func (ir *medicineItemRepo) AdjustStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.MedicineItem{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("stock adjustment of %d would make item %s negative", delta, id)
	}
	return nil
}

func (ir *medicineItemRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.MedicineItem{}).Error
}

func (ir *medicineItemRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.MedicineItem{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type MedicineRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, requests []*types.MedicineRequest) ([]*types.MedicineRequest, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MedicineRequest, error)
	List(ctx context.Context, tx *gorm.DB, status string, params ListParams) ([]*types.MedicineRequest, int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type medicineRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMedicineRequestRepo(db *gorm.DB, baseLog *logger.Logger) MedicineRequestRepo {
	repoLog := baseLog.With("repo", "MedicineRequestRepo")
	return &medicineRequestRepo{db: db, log: repoLog}
}

func (qr *medicineRequestRepo) Create(ctx context.Context, tx *gorm.DB, requests []*types.MedicineRequest) ([]*types.MedicineRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if len(requests) == 0 {
		return []*types.MedicineRequest{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (qr *medicineRequestRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MedicineRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.MedicineRequest
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.MedicineItem").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *medicineRequestRepo) List(ctx context.Context, tx *gorm.DB, status string, params ListParams) ([]*types.MedicineRequest, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	query := transaction.WithContext(ctx).Model(&types.MedicineRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.MedicineRequest
	if err := query.
		Preload("Items").
		Preload("Items.MedicineItem").
		Order("requested_at DESC").
		Limit(params.Limit()).
		Offset(params.Offset()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (qr *medicineRequestRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.MedicineRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "resolved_at": time.Now()}).Error
}

func (qr *medicineRequestRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.MedicineRequest{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
