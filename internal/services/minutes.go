package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/barangaylink/barangaylink-backend/internal/clients/redis"
	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/normalization"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/sse"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type MinutesService interface {
	Create(ctx context.Context, minutes *types.MeetingMinutes) (*types.MeetingMinutes, error)
	Update(ctx context.Context, minutes *types.MeetingMinutes) (*types.MeetingMinutes, error)
	Get(ctx context.Context, id uuid.UUID) (*types.MeetingMinutes, error)
	List(ctx context.Context, params repos.ListParams) ([]*types.MeetingMinutes, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type minutesService struct {
	db          *gorm.DB
	log         *logger.Logger
	minutesRepo repos.MeetingMinutesRepo
	cache       redisclient.ListingCache
	hub         *sse.SSEHub
}

func NewMinutesService(
	db *gorm.DB,
	log *logger.Logger,
	minutesRepo repos.MeetingMinutesRepo,
	cache redisclient.ListingCache,
	hub *sse.SSEHub,
) MinutesService {
	return &minutesService{
		db:          db,
		log:         log.With("service", "MinutesService"),
		minutesRepo: minutesRepo,
		cache:       cache,
		hub:         hub,
	}
}

func (ms *minutesService) Create(ctx context.Context, minutes *types.MeetingMinutes) (*types.MeetingMinutes, error) {
	if err := validateMinutes(minutes); err != nil {
		return nil, err
	}
	minutes.ID = uuid.New()
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ms.minutesRepo.Create(ctx, tx, []*types.MeetingMinutes{minutes})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create meeting minutes: %w", err)
	}
	ms.notifyChanged(ctx)
	return minutes, nil
}

func (ms *minutesService) Update(ctx context.Context, minutes *types.MeetingMinutes) (*types.MeetingMinutes, error) {
	existing, err := ms.Get(ctx, minutes.ID)
	if err != nil {
		return nil, err
	}
	if err := validateMinutes(minutes); err != nil {
		return nil, err
	}
	minutes.CreatedAt = existing.CreatedAt
	if err := ms.minutesRepo.Update(ctx, nil, minutes); err != nil {
		return nil, fmt.Errorf("failed to update meeting minutes: %w", err)
	}
	ms.notifyChanged(ctx)
	return minutes, nil
}

func (ms *minutesService) Get(ctx context.Context, id uuid.UUID) (*types.MeetingMinutes, error) {
	found, err := ms.minutesRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meeting minutes: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (ms *minutesService) List(ctx context.Context, params repos.ListParams) ([]*types.MeetingMinutes, int64, error) {
	return ms.minutesRepo.List(ctx, nil, params)
}

func (ms *minutesService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := ms.Get(ctx, id); err != nil {
		return err
	}
	if err := ms.minutesRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete meeting minutes: %w", err)
	}
	ms.notifyChanged(ctx)
	return nil
}

func validateMinutes(minutes *types.MeetingMinutes) error {
	minutes.Title = normalization.TrimInput(minutes.Title)
	if minutes.Title == "" {
		return fmt.Errorf("a title is required for meeting minutes")
	}
	if minutes.SessionDate.IsZero() {
		return fmt.Errorf("a session date is required for meeting minutes")
	}
	return nil
}

func (ms *minutesService) notifyChanged(ctx context.Context) {
	if ms.cache != nil {
		if err := ms.cache.Invalidate(ctx, sse.ChannelMinutes); err != nil {
			ms.log.Warn("Failed to invalidate minutes listings", "error", err)
		}
	}
	if ms.hub != nil {
		ms.hub.Broadcast(sse.SSEMessage{Channel: sse.ChannelMinutes, Event: sse.SSEEventMinutesChanged})
	}
}
