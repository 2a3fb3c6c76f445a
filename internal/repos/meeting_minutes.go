package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type MeetingMinutesRepo interface {
	Create(ctx context.Context, tx *gorm.DB, minutes []*types.MeetingMinutes) ([]*types.MeetingMinutes, error)
	Update(ctx context.Context, tx *gorm.DB, minutes *types.MeetingMinutes) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MeetingMinutes, error)
	List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.MeetingMinutes, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type meetingMinutesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeetingMinutesRepo(db *gorm.DB, baseLog *logger.Logger) MeetingMinutesRepo {
	repoLog := baseLog.With("repo", "MeetingMinutesRepo")
	return &meetingMinutesRepo{db: db, log: repoLog}
}

func (mr *meetingMinutesRepo) Create(ctx context.Context, tx *gorm.DB, minutes []*types.MeetingMinutes) ([]*types.MeetingMinutes, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(minutes) == 0 {
		return []*types.MeetingMinutes{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&minutes).Error; err != nil {
		return nil, err
	}
	return minutes, nil
}

func (mr *meetingMinutesRepo) Update(ctx context.Context, tx *gorm.DB, minutes *types.MeetingMinutes) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Save(minutes).Error
}

func (mr *meetingMinutesRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MeetingMinutes, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.MeetingMinutes
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

func (mr *meetingMinutesRepo) List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.MeetingMinutes, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).Model(&types.MeetingMinutes{})
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(agenda) LIKE ?", pattern, pattern)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.MeetingMinutes
	if err := query.
		Order("session_date DESC").
		Limit(params.Limit()).
		Offset(params.Offset()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (mr *meetingMinutesRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.MeetingMinutes{}).Error
}

func (mr *meetingMinutesRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.MeetingMinutes{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
