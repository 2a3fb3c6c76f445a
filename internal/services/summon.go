package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/barangaylink/barangaylink-backend/internal/clients/redis"
	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/normalization"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/sse"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type SummonService interface {
	FileCase(ctx context.Context, summonCase *types.SummonCase, complainants, respondents []string) (*types.SummonCase, error)
	Get(ctx context.Context, id uuid.UUID) (*types.SummonCase, error)
	List(ctx context.Context, status string, params repos.ListParams) ([]*types.SummonCase, int64, error)
	ScheduleHearing(ctx context.Context, caseID uuid.UUID, scheduledAt time.Time, venue string) (*types.SummonHearing, error)
	RecordOutcome(ctx context.Context, caseID, hearingID uuid.UUID, outcome string) error
	Settle(ctx context.Context, caseID uuid.UUID) error
	Escalate(ctx context.Context, caseID uuid.UUID) error
	HearingNotice(ctx context.Context, caseID uuid.UUID) ([]byte, error)
}

type summonService struct {
	db       *gorm.DB
	log      *logger.Logger
	caseRepo repos.SummonCaseRepo
	notices  *NoticeRenderer
	cache    redisclient.ListingCache
	hub      *sse.SSEHub
}

func NewSummonService(
	db *gorm.DB,
	log *logger.Logger,
	caseRepo repos.SummonCaseRepo,
	notices *NoticeRenderer,
	cache redisclient.ListingCache,
	hub *sse.SSEHub,
) SummonService {
	return &summonService{
		db:       db,
		log:      log.With("service", "SummonService"),
		caseRepo: caseRepo,
		notices:  notices,
		cache:    cache,
		hub:      hub,
	}
}

func (ss *summonService) FileCase(ctx context.Context, summonCase *types.SummonCase, complainants, respondents []string) (*types.SummonCase, error) {
	summonCase.CaseNumber = normalization.TrimInput(summonCase.CaseNumber)
	summonCase.Nature = normalization.TrimInput(summonCase.Nature)
	if summonCase.CaseNumber == "" {
		return nil, fmt.Errorf("a case number is required")
	}
	if len(complainants) == 0 || len(respondents) == 0 {
		return nil, fmt.Errorf("at least one complainant and one respondent are required")
	}
	taken, err := ss.caseRepo.CaseNumberExists(ctx, nil, summonCase.CaseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check case number: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("case number %q is already in use", summonCase.CaseNumber)
	}

	summonCase.Complainants, err = encodeParties(complainants)
	if err != nil {
		return nil, err
	}
	summonCase.Respondents, err = encodeParties(respondents)
	if err != nil {
		return nil, err
	}
	summonCase.ID = uuid.New()
	summonCase.Status = types.SummonCaseFiled
	if summonCase.FiledAt.IsZero() {
		summonCase.FiledAt = time.Now()
	}
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ss.caseRepo.Create(ctx, tx, []*types.SummonCase{summonCase})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to file summon case: %w", err)
	}
	ss.notifyChanged(ctx)
	return summonCase, nil
}

func (ss *summonService) Get(ctx context.Context, id uuid.UUID) (*types.SummonCase, error) {
	found, err := ss.caseRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summon case: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (ss *summonService) List(ctx context.Context, status string, params repos.ListParams) ([]*types.SummonCase, int64, error) {
	return ss.caseRepo.List(ctx, nil, status, params)
}

// ScheduleHearing books the next mediation session. Lupon mediation
// caps each case at three hearings.
func (ss *summonService) ScheduleHearing(ctx context.Context, caseID uuid.UUID, scheduledAt time.Time, venue string) (*types.SummonHearing, error) {
	summonCase, err := ss.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if summonCase.Status == types.SummonCaseSettled || summonCase.Status == types.SummonCaseEscalated {
		return nil, fmt.Errorf("case %s is %s: %w", summonCase.CaseNumber, summonCase.Status, ErrInvalidTransition)
	}
	if scheduledAt.IsZero() {
		return nil, fmt.Errorf("a hearing date is required")
	}

	var hearing *types.SummonHearing
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		held, cErr := ss.caseRepo.CountHearings(ctx, tx, caseID)
		if cErr != nil {
			return fmt.Errorf("failed to count hearings: %w", cErr)
		}
		if held >= types.MaxHearingsPerCase {
			return fmt.Errorf("case %s already has %d hearings: %w", summonCase.CaseNumber, held, ErrHearingLimit)
		}
		hearing = &types.SummonHearing{
			ID:          uuid.New(),
			CaseID:      caseID,
			Number:      int(held) + 1,
			ScheduledAt: scheduledAt,
			Venue:       normalization.TrimInput(venue),
		}
		if _, hErr := ss.caseRepo.CreateHearings(ctx, tx, []*types.SummonHearing{hearing}); hErr != nil {
			return fmt.Errorf("failed to create hearing: %w", hErr)
		}
		if summonCase.Status == types.SummonCaseFiled {
			summonCase.Status = types.SummonCaseScheduled
			if uErr := ss.caseRepo.Update(ctx, tx, summonCase); uErr != nil {
				return fmt.Errorf("failed to move case to scheduled: %w", uErr)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	ss.notifyChanged(ctx)
	return hearing, nil
}

func (ss *summonService) RecordOutcome(ctx context.Context, caseID, hearingID uuid.UUID, outcome string) error {
	summonCase, err := ss.Get(ctx, caseID)
	if err != nil {
		return err
	}
	for i := range summonCase.Hearings {
		if summonCase.Hearings[i].ID == hearingID {
			summonCase.Hearings[i].Outcome = normalization.TrimInput(outcome)
			if uErr := ss.caseRepo.UpdateHearing(ctx, nil, &summonCase.Hearings[i]); uErr != nil {
				return fmt.Errorf("failed to record hearing outcome: %w", uErr)
			}
			ss.notifyChanged(ctx)
			return nil
		}
	}
	return fmt.Errorf("hearing %s on case %s: %w", hearingID, summonCase.CaseNumber, ErrNotFound)
}

func (ss *summonService) Settle(ctx context.Context, caseID uuid.UUID) error {
	return ss.closeCase(ctx, caseID, types.SummonCaseSettled, false)
}

// Escalate certifies the case for filing in court. Escalation requires
// the mediation attempts to be used up first.
func (ss *summonService) Escalate(ctx context.Context, caseID uuid.UUID) error {
	return ss.closeCase(ctx, caseID, types.SummonCaseEscalated, true)
}

func (ss *summonService) closeCase(ctx context.Context, caseID uuid.UUID, target string, requireExhausted bool) error {
	summonCase, err := ss.Get(ctx, caseID)
	if err != nil {
		return err
	}
	if summonCase.Status != types.SummonCaseFiled && summonCase.Status != types.SummonCaseScheduled {
		return fmt.Errorf("case %s is %s: %w", summonCase.CaseNumber, summonCase.Status, ErrInvalidTransition)
	}
	if requireExhausted {
		held, cErr := ss.caseRepo.CountHearings(ctx, nil, caseID)
		if cErr != nil {
			return fmt.Errorf("failed to count hearings: %w", cErr)
		}
		if held < types.MaxHearingsPerCase {
			return fmt.Errorf("case %s has %d of %d hearings: %w", summonCase.CaseNumber, held, types.MaxHearingsPerCase, ErrInvalidTransition)
		}
	}
	summonCase.Status = target
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ss.caseRepo.Update(ctx, tx, summonCase)
	}); err != nil {
		return fmt.Errorf("failed to close summon case: %w", err)
	}
	ss.notifyChanged(ctx)
	return nil
}

// HearingNotice renders a printable PNG summons for the case's next
// hearing.
func (ss *summonService) HearingNotice(ctx context.Context, caseID uuid.UUID) ([]byte, error) {
	if ss.notices == nil {
		return nil, fmt.Errorf("notice rendering is not configured")
	}
	summonCase, err := ss.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if len(summonCase.Hearings) == 0 {
		return nil, fmt.Errorf("case %s has no scheduled hearing: %w", summonCase.CaseNumber, ErrNotFound)
	}
	hearing := summonCase.Hearings[len(summonCase.Hearings)-1]
	return ss.notices.RenderHearingNotice(summonCase, &hearing)
}

func encodeParties(names []string) (datatypes.JSON, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if v := normalization.TrimInput(n); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("party names cannot all be empty")
	}
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to encode party names: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func (ss *summonService) notifyChanged(ctx context.Context) {
	if ss.cache != nil {
		if err := ss.cache.Invalidate(ctx, sse.ChannelSummons); err != nil {
			ss.log.Warn("Failed to invalidate summon listings", "error", err)
		}
	}
	if ss.hub != nil {
		ss.hub.Broadcast(sse.SSEMessage{Channel: sse.ChannelSummons, Event: sse.SSEEventSummonChanged})
	}
}
