package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/barangaylink/barangaylink-backend/internal/clients/redis"
	"github.com/barangaylink/barangaylink-backend/internal/grouping"
	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/sse"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

const pregnancyCacheTTL = 5 * time.Minute

// PregnancyGroupView is the grouped maternal-care payload. Status comes
// from the pregnancy row, never re-derived from record contents.
type PregnancyGroupView struct {
	GroupKey        string                    `json:"group_key"`
	ResidentID      string                    `json:"resident_id"`
	StartDate       time.Time                 `json:"start_date"`
	ExpectedDueDate *time.Time                `json:"expected_due_date,omitempty"`
	DeliveryDate    *time.Time                `json:"delivery_date,omitempty"`
	DerivedStatus   grouping.Status           `json:"derived_status"`
	MemberCount     int                       `json:"member_count"`
	LatestRecordID  string                    `json:"latest_record_id,omitempty"`
	Records         []grouping.MaternalRecord `json:"records"`
}

type MaternalService interface {
	RegisterPregnancy(ctx context.Context, pregnancy *types.Pregnancy) (*types.Pregnancy, error)
	AddRecord(ctx context.Context, record *types.MaternalRecord) (*types.MaternalRecord, error)
	GetPregnancy(ctx context.Context, id uuid.UUID) (*types.Pregnancy, error)
	GroupedPregnancies(ctx context.Context) ([]PregnancyGroupView, error)
	MarkCompleted(ctx context.Context, pregnancyID, recordID uuid.UUID) error
	MarkLoss(ctx context.Context, pregnancyID, recordID uuid.UUID) error
}

type maternalService struct {
	db            *gorm.DB
	log           *logger.Logger
	pregnancyRepo repos.PregnancyRepo
	recordRepo    repos.MaternalRecordRepo
	residentRepo  repos.ResidentRepo
	cache         redisclient.ListingCache
	hub           *sse.SSEHub
}

func NewMaternalService(
	db *gorm.DB,
	log *logger.Logger,
	pregnancyRepo repos.PregnancyRepo,
	recordRepo repos.MaternalRecordRepo,
	residentRepo repos.ResidentRepo,
	cache redisclient.ListingCache,
	hub *sse.SSEHub,
) MaternalService {
	return &maternalService{
		db:            db,
		log:           log.With("service", "MaternalService"),
		pregnancyRepo: pregnancyRepo,
		recordRepo:    recordRepo,
		residentRepo:  residentRepo,
		cache:         cache,
		hub:           hub,
	}
}

func (ms *maternalService) RegisterPregnancy(ctx context.Context, pregnancy *types.Pregnancy) (*types.Pregnancy, error) {
	residents, err := ms.residentRepo.GetByIDs(ctx, nil, []uuid.UUID{pregnancy.ResidentID})
	if err != nil {
		return nil, fmt.Errorf("failed to check resident: %w", err)
	}
	if len(residents) == 0 {
		return nil, fmt.Errorf("resident %s: %w", pregnancy.ResidentID, ErrNotFound)
	}
	pregnancy.ID = uuid.New()
	pregnancy.Status = types.PregnancyStatusActive
	if pregnancy.RegisteredAt.IsZero() {
		pregnancy.RegisteredAt = time.Now()
	}
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ms.pregnancyRepo.Create(ctx, tx, []*types.Pregnancy{pregnancy})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to register pregnancy: %w", err)
	}
	ms.notifyChanged(ctx)
	return pregnancy, nil
}

func (ms *maternalService) AddRecord(ctx context.Context, record *types.MaternalRecord) (*types.MaternalRecord, error) {
	if record.RecordType != types.MaternalRecordPrenatal && record.RecordType != types.MaternalRecordPostpartum {
		return nil, fmt.Errorf("record type must be %s or %s", types.MaternalRecordPrenatal, types.MaternalRecordPostpartum)
	}
	pregnancy, err := ms.GetPregnancy(ctx, record.PregnancyID)
	if err != nil {
		return nil, err
	}
	if pregnancy.Status != types.PregnancyStatusActive {
		return nil, fmt.Errorf("pregnancy %s is %s: %w", pregnancy.ID, pregnancy.Status, ErrInvalidTransition)
	}
	if record.CheckupDate.IsZero() {
		record.CheckupDate = time.Now()
	}
	record.ID = uuid.New()
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ms.recordRepo.Create(ctx, tx, []*types.MaternalRecord{record})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to add maternal record: %w", err)
	}
	ms.notifyChanged(ctx)
	return record, nil
}

func (ms *maternalService) GetPregnancy(ctx context.Context, id uuid.UUID) (*types.Pregnancy, error) {
	found, err := ms.pregnancyRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pregnancy: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

// GroupedPregnancies builds one group per pregnancy row with the header
// fields synthesized from its records. Records pointing at an unknown
// pregnancy are logged and omitted.
func (ms *maternalService) GroupedPregnancies(ctx context.Context) ([]PregnancyGroupView, error) {
	cacheKey := sse.ChannelMaternal + ":grouped"
	if ms.cache != nil {
		var cached []PregnancyGroupView
		if hit, err := ms.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	pregnancies, err := ms.pregnancyRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list pregnancies: %w", err)
	}
	records, err := ms.recordRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list maternal records: %w", err)
	}

	summaries := make([]grouping.PregnancySummary, 0, len(pregnancies))
	for _, p := range pregnancies {
		summaries = append(summaries, grouping.PregnancySummary{
			ID:           p.ID.String(),
			ResidentID:   p.ResidentID.String(),
			StatusRaw:    p.Status,
			RegisteredAt: p.RegisteredAt,
		})
	}
	flat := make([]grouping.MaternalRecord, 0, len(records))
	for _, r := range records {
		flat = append(flat, grouping.MaternalRecord{
			ID:              r.ID.String(),
			PregnancyID:     r.PregnancyID.String(),
			RecordType:      grouping.RecordType(r.RecordType),
			CreatedAt:       r.CreatedAt,
			ExpectedDueDate: r.ExpectedDueDate,
			DeliveryDate:    r.DeliveryDate,
		})
	}

	groups, dropped := grouping.GroupPregnancies(summaries, flat)
	if len(dropped) > 0 {
		ms.log.Warn("Dropped maternal records with unknown pregnancy ids", "ids", dropped)
	}
	views := make([]PregnancyGroupView, 0, len(groups))
	for _, g := range groups {
		view := PregnancyGroupView{
			GroupKey:        g.GroupKey,
			ResidentID:      g.ResidentID,
			StartDate:       g.StartDate,
			ExpectedDueDate: g.ExpectedDueDate,
			DeliveryDate:    g.DeliveryDate,
			DerivedStatus:   g.DerivedStatus,
			MemberCount:     g.MemberCount(),
			Records:         g.Records,
		}
		if len(g.Records) > 0 {
			view.LatestRecordID = g.Records[0].ID
		}
		views = append(views, view)
	}

	if ms.cache != nil {
		if err := ms.cache.Set(ctx, cacheKey, views, pregnancyCacheTTL); err != nil {
			ms.log.Warn("Failed to cache grouped pregnancies", "error", err)
		}
	}
	return views, nil
}

func (ms *maternalService) MarkCompleted(ctx context.Context, pregnancyID, recordID uuid.UUID) error {
	return ms.closePregnancy(ctx, pregnancyID, recordID, grouping.StatusCompleted, types.PregnancyStatusCompleted)
}

func (ms *maternalService) MarkLoss(ctx context.Context, pregnancyID, recordID uuid.UUID) error {
	return ms.closePregnancy(ctx, pregnancyID, recordID, grouping.StatusLoss, types.PregnancyStatusLoss)
}

// closePregnancy moves an active pregnancy to a terminal status. The
// transition must come from the newest record of the group so that
// backdated entries cannot close out care that has since continued.
func (ms *maternalService) closePregnancy(ctx context.Context, pregnancyID, recordID uuid.UUID, target grouping.Status, stored string) error {
	pregnancy, err := ms.GetPregnancy(ctx, pregnancyID)
	if err != nil {
		return err
	}
	if !grouping.CanTransition(grouping.NormalizeStatus(pregnancy.Status), target) {
		return fmt.Errorf("pregnancy %s is %s: %w", pregnancyID, pregnancy.Status, ErrInvalidTransition)
	}

	records, err := ms.recordRepo.ListByPregnancyIDs(ctx, nil, []uuid.UUID{pregnancyID})
	if err != nil {
		return fmt.Errorf("failed to list records for pregnancy: %w", err)
	}
	flat := make([]grouping.MaternalRecord, 0, len(records))
	for _, r := range records {
		flat = append(flat, grouping.MaternalRecord{
			ID:          r.ID.String(),
			PregnancyID: r.PregnancyID.String(),
			RecordType:  grouping.RecordType(r.RecordType),
			CreatedAt:   r.CreatedAt,
		})
	}
	groups, _ := grouping.GroupPregnancies([]grouping.PregnancySummary{{
		ID:           pregnancy.ID.String(),
		ResidentID:   pregnancy.ResidentID.String(),
		StatusRaw:    pregnancy.Status,
		RegisteredAt: pregnancy.RegisteredAt,
	}}, flat)
	if len(groups) == 0 || !groups[0].IsLatest(recordID.String()) {
		return fmt.Errorf("record %s is not the latest for pregnancy %s: %w", recordID, pregnancyID, ErrNotLatestRecord)
	}

	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ms.pregnancyRepo.UpdateStatus(ctx, tx, pregnancyID, stored)
	}); err != nil {
		return fmt.Errorf("failed to update pregnancy status: %w", err)
	}
	ms.notifyChanged(ctx)
	return nil
}

func (ms *maternalService) notifyChanged(ctx context.Context) {
	if ms.cache != nil {
		if err := ms.cache.Invalidate(ctx, sse.ChannelMaternal); err != nil {
			ms.log.Warn("Failed to invalidate maternal listings", "error", err)
		}
	}
	if ms.hub != nil {
		ms.hub.Broadcast(sse.SSEMessage{Channel: sse.ChannelMaternal, Event: sse.SSEEventMaternalChanged})
	}
}
