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
	"github.com/barangaylink/barangaylink-backend/internal/normalization"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/sse"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

const folderCacheTTL = 5 * time.Minute

// FolderView is the wire shape for one ordinance folder, carrying the
// derived fields the clients used to compute on their own.
type FolderView struct {
	GroupKey      string                     `json:"group_key"`
	Root          grouping.OrdinanceRecord   `json:"root"`
	Members       []grouping.OrdinanceRecord `json:"members"`
	MemberCount   int                        `json:"member_count"`
	HasRepeal     bool                       `json:"has_repeal"`
	DerivedStatus grouping.Status            `json:"derived_status"`
	LatestID      string                     `json:"latest_id"`
}

type OrdinanceService interface {
	Create(ctx context.Context, ordinance *types.Ordinance) (*types.Ordinance, error)
	Update(ctx context.Context, ordinance *types.Ordinance) (*types.Ordinance, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Ordinance, error)
	List(ctx context.Context, params repos.ListParams) ([]*types.Ordinance, int64, error)
	Amend(ctx context.Context, parentID uuid.UUID, amendment *types.Ordinance) (*types.Ordinance, error)
	Repeal(ctx context.Context, parentID uuid.UUID, repeal *types.Ordinance) (*types.Ordinance, error)
	Folders(ctx context.Context, search string) ([]FolderView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ordinanceService struct {
	db            *gorm.DB
	log           *logger.Logger
	ordinanceRepo repos.OrdinanceRepo
	cache         redisclient.ListingCache
	hub           *sse.SSEHub
}

func NewOrdinanceService(
	db *gorm.DB,
	log *logger.Logger,
	ordinanceRepo repos.OrdinanceRepo,
	cache redisclient.ListingCache,
	hub *sse.SSEHub,
) OrdinanceService {
	return &ordinanceService{
		db:            db,
		log:           log.With("service", "OrdinanceService"),
		ordinanceRepo: ordinanceRepo,
		cache:         cache,
		hub:           hub,
	}
}

func (os *ordinanceService) Create(ctx context.Context, ordinance *types.Ordinance) (*types.Ordinance, error) {
	if err := os.validateNew(ctx, ordinance); err != nil {
		return nil, err
	}
	ordinance.ID = uuid.New()
	if ordinance.Status == "" {
		ordinance.Status = types.OrdinanceStatusActive
	}
	if err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := os.ordinanceRepo.Create(ctx, tx, []*types.Ordinance{ordinance})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create ordinance: %w", err)
	}
	os.notifyChanged(ctx)
	return ordinance, nil
}

func (os *ordinanceService) Update(ctx context.Context, ordinance *types.Ordinance) (*types.Ordinance, error) {
	existing, err := os.Get(ctx, ordinance.ID)
	if err != nil {
		return nil, err
	}
	ordinance.Number = normalization.TrimInput(ordinance.Number)
	ordinance.Title = normalization.TrimInput(ordinance.Title)
	if ordinance.Number == "" || ordinance.Title == "" {
		return nil, fmt.Errorf("an ordinance number and title are required")
	}
	if ordinance.Number != existing.Number {
		taken, exErr := os.ordinanceRepo.NumberExists(ctx, nil, ordinance.Number)
		if exErr != nil {
			return nil, fmt.Errorf("failed to check ordinance number: %w", exErr)
		}
		if taken {
			return nil, fmt.Errorf("ordinance number %q is already in use", ordinance.Number)
		}
	}
	ordinance.CreatedAt = existing.CreatedAt
	ordinance.ParentID = existing.ParentID
	ordinance.IsAmendment = existing.IsAmendment
	ordinance.IsRepeal = existing.IsRepeal
	if err := os.ordinanceRepo.Update(ctx, nil, ordinance); err != nil {
		return nil, fmt.Errorf("failed to update ordinance: %w", err)
	}
	os.notifyChanged(ctx)
	return ordinance, nil
}

func (os *ordinanceService) Get(ctx context.Context, id uuid.UUID) (*types.Ordinance, error) {
	found, err := os.ordinanceRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ordinance: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (os *ordinanceService) List(ctx context.Context, params repos.ListParams) ([]*types.Ordinance, int64, error) {
	return os.ordinanceRepo.List(ctx, nil, params)
}

// Amend files a new ordinance record attached under parentID with the
// amendment flag set.
func (os *ordinanceService) Amend(ctx context.Context, parentID uuid.UUID, amendment *types.Ordinance) (*types.Ordinance, error) {
	return os.createChild(ctx, parentID, amendment, true, false)
}

// Repeal files a repeal record under parentID and marks the parent
// repealed in the same transaction.
func (os *ordinanceService) Repeal(ctx context.Context, parentID uuid.UUID, repeal *types.Ordinance) (*types.Ordinance, error) {
	return os.createChild(ctx, parentID, repeal, false, true)
}

func (os *ordinanceService) createChild(ctx context.Context, parentID uuid.UUID, child *types.Ordinance, isAmendment, isRepeal bool) (*types.Ordinance, error) {
	parent, err := os.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, fmt.Errorf("ordinance %s is itself an amendment or repeal; attach to the root ordinance instead", parent.Number)
	}
	if err := os.validateNew(ctx, child); err != nil {
		return nil, err
	}
	child.ID = uuid.New()
	child.ParentID = &parent.ID
	child.IsAmendment = isAmendment
	child.IsRepeal = isRepeal
	child.Status = types.OrdinanceStatusActive
	if err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := os.ordinanceRepo.Create(ctx, tx, []*types.Ordinance{child}); cErr != nil {
			return cErr
		}
		if isRepeal {
			parent.Status = types.OrdinanceStatusRepealed
			if uErr := os.ordinanceRepo.Update(ctx, tx, parent); uErr != nil {
				return uErr
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to file ordinance under %s: %w", parent.Number, err)
	}
	os.notifyChanged(ctx)
	return child, nil
}

// Folders returns the grouped ordinance view, cached per search term.
// Records pointing at a parent missing from the result set are logged
// and left out rather than surfaced as broken folders.
func (os *ordinanceService) Folders(ctx context.Context, search string) ([]FolderView, error) {
	search = normalization.ParseInputString(search)
	cacheKey := fmt.Sprintf("%s:folders:%s", sse.ChannelOrdinances, search)
	if os.cache != nil {
		var cached []FolderView
		if hit, err := os.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	all, err := os.ordinanceRepo.ListAll(ctx, nil, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list ordinances for folders: %w", err)
	}
	records := make([]grouping.OrdinanceRecord, 0, len(all))
	for _, o := range all {
		rec := grouping.OrdinanceRecord{
			ID:          o.ID.String(),
			Number:      o.Number,
			Title:       o.Title,
			StatusRaw:   o.Status,
			IsAmendment: o.IsAmendment,
			IsRepeal:    o.IsRepeal,
			CreatedAt:   o.CreatedAt,
		}
		if o.ParentID != nil {
			rec.ParentID = o.ParentID.String()
		}
		records = append(records, rec)
	}

	folders, dropped := grouping.GroupOrdinances(records)
	if len(dropped) > 0 {
		os.log.Warn("Dropped ordinances with unresolved parents from folder view", "ids", dropped)
	}
	views := make([]FolderView, 0, len(folders))
	for _, f := range folders {
		views = append(views, FolderView{
			GroupKey:      f.GroupKey,
			Root:          f.Root,
			Members:       f.Members,
			MemberCount:   f.MemberCount(),
			HasRepeal:     f.HasRepeal(),
			DerivedStatus: f.DerivedStatus(),
			LatestID:      f.LatestID(),
		})
	}

	if os.cache != nil {
		if err := os.cache.Set(ctx, cacheKey, views, folderCacheTTL); err != nil {
			os.log.Warn("Failed to cache ordinance folders", "error", err)
		}
	}
	return views, nil
}

func (os *ordinanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := os.Get(ctx, id); err != nil {
		return err
	}
	if err := os.ordinanceRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete ordinance: %w", err)
	}
	os.notifyChanged(ctx)
	return nil
}

func (os *ordinanceService) validateNew(ctx context.Context, ordinance *types.Ordinance) error {
	ordinance.Number = normalization.TrimInput(ordinance.Number)
	ordinance.Title = normalization.TrimInput(ordinance.Title)
	if ordinance.Number == "" {
		return fmt.Errorf("an ordinance number is required")
	}
	if ordinance.Title == "" {
		return fmt.Errorf("an ordinance title is required")
	}
	taken, err := os.ordinanceRepo.NumberExists(ctx, nil, ordinance.Number)
	if err != nil {
		return fmt.Errorf("failed to check ordinance number: %w", err)
	}
	if taken {
		return fmt.Errorf("ordinance number %q is already in use", ordinance.Number)
	}
	return nil
}

func (os *ordinanceService) notifyChanged(ctx context.Context) {
	if os.cache != nil {
		if err := os.cache.Invalidate(ctx, sse.ChannelOrdinances); err != nil {
			os.log.Warn("Failed to invalidate ordinance listings", "error", err)
		}
	}
	if os.hub != nil {
		os.hub.Broadcast(sse.SSEMessage{Channel: sse.ChannelOrdinances, Event: sse.SSEEventOrdinanceChanged})
	}
}
