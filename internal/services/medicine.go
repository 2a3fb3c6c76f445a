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

type MedicineService interface {
	CreateItem(ctx context.Context, item *types.MedicineItem, rawCategories string) (*types.MedicineItem, error)
	UpdateItem(ctx context.Context, item *types.MedicineItem, rawCategories string) (*types.MedicineItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*types.MedicineItem, error)
	ListItems(ctx context.Context, params repos.ListParams) ([]*types.MedicineItem, int64, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	GetDraft(ctx context.Context, userID uuid.UUID) ([]redisclient.DraftItem, error)
	SaveDraft(ctx context.Context, userID uuid.UUID, items []redisclient.DraftItem) error
	ClearDraft(ctx context.Context, userID uuid.UUID) error

	SubmitRequest(ctx context.Context, userID, residentID uuid.UUID, reason string) (*types.MedicineRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error)
	ListRequests(ctx context.Context, status string, params repos.ListParams) ([]*types.MedicineRequest, int64, error)
	ApproveRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error)
	ReleaseRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error)
	RejectRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error)
}

type medicineService struct {
	db           *gorm.DB
	log          *logger.Logger
	itemRepo     repos.MedicineItemRepo
	requestRepo  repos.MedicineRequestRepo
	residentRepo repos.ResidentRepo
	drafts       redisclient.RequestDraftStore
	cache        redisclient.ListingCache
	hub          *sse.SSEHub
}

func NewMedicineService(
	db *gorm.DB,
	log *logger.Logger,
	itemRepo repos.MedicineItemRepo,
	requestRepo repos.MedicineRequestRepo,
	residentRepo repos.ResidentRepo,
	drafts redisclient.RequestDraftStore,
	cache redisclient.ListingCache,
	hub *sse.SSEHub,
) MedicineService {
	return &medicineService{
		db:           db,
		log:          log.With("service", "MedicineService"),
		itemRepo:     itemRepo,
		requestRepo:  requestRepo,
		residentRepo: residentRepo,
		drafts:       drafts,
		cache:        cache,
		hub:          hub,
	}
}

func (ms *medicineService) CreateItem(ctx context.Context, item *types.MedicineItem, rawCategories string) (*types.MedicineItem, error) {
	if err := ms.prepareItem(item, rawCategories); err != nil {
		return nil, err
	}
	item.ID = uuid.New()
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ms.itemRepo.Create(ctx, tx, []*types.MedicineItem{item})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create medicine item: %w", err)
	}
	ms.notifyChanged(ctx)
	return item, nil
}

func (ms *medicineService) UpdateItem(ctx context.Context, item *types.MedicineItem, rawCategories string) (*types.MedicineItem, error) {
	existing, err := ms.GetItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if err := ms.prepareItem(item, rawCategories); err != nil {
		return nil, err
	}
	item.CreatedAt = existing.CreatedAt
	if err := ms.itemRepo.Update(ctx, nil, item); err != nil {
		return nil, fmt.Errorf("failed to update medicine item: %w", err)
	}
	ms.notifyChanged(ctx)
	return item, nil
}

// prepareItem normalizes the item fields and folds whatever shape the
// caller sent for categories into a clean JSON array.
func (ms *medicineService) prepareItem(item *types.MedicineItem, rawCategories string) error {
	item.Name = normalization.TrimInput(item.Name)
	item.Unit = normalization.TrimInput(item.Unit)
	if item.Name == "" {
		return fmt.Errorf("a medicine name is required")
	}
	if item.StockQuantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative")
	}
	categories := normalization.CoerceStringSlice(rawCategories)
	encoded, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	item.Categories = datatypes.JSON(encoded)
	return nil
}

func (ms *medicineService) GetItem(ctx context.Context, id uuid.UUID) (*types.MedicineItem, error) {
	found, err := ms.itemRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medicine item: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (ms *medicineService) ListItems(ctx context.Context, params repos.ListParams) ([]*types.MedicineItem, int64, error) {
	return ms.itemRepo.List(ctx, nil, params)
}

func (ms *medicineService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := ms.GetItem(ctx, id); err != nil {
		return err
	}
	if err := ms.itemRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete medicine item: %w", err)
	}
	ms.notifyChanged(ctx)
	return nil
}

func (ms *medicineService) GetDraft(ctx context.Context, userID uuid.UUID) ([]redisclient.DraftItem, error) {
	return ms.drafts.Get(ctx, userID)
}

func (ms *medicineService) SaveDraft(ctx context.Context, userID uuid.UUID, items []redisclient.DraftItem) error {
	merged := make([]redisclient.DraftItem, 0, len(items))
	seen := make(map[uuid.UUID]int)
	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("draft quantity for %s must be positive", it.MedicineItemID)
		}
		if idx, ok := seen[it.MedicineItemID]; ok {
			merged[idx].Quantity += it.Quantity
			continue
		}
		seen[it.MedicineItemID] = len(merged)
		merged = append(merged, it)
	}
	return ms.drafts.Put(ctx, userID, merged)
}

func (ms *medicineService) ClearDraft(ctx context.Context, userID uuid.UUID) error {
	return ms.drafts.Clear(ctx, userID)
}

// SubmitRequest turns the caller's draft into a pending request. Stock
// is not touched until release so that drafting and approving never
// hold inventory.
func (ms *medicineService) SubmitRequest(ctx context.Context, userID, residentID uuid.UUID, reason string) (*types.MedicineRequest, error) {
	draft, err := ms.drafts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request draft: %w", err)
	}
	if len(draft) == 0 {
		return nil, ErrEmptyDraft
	}
	residents, err := ms.residentRepo.GetByIDs(ctx, nil, []uuid.UUID{residentID})
	if err != nil {
		return nil, fmt.Errorf("failed to check resident: %w", err)
	}
	if len(residents) == 0 {
		return nil, fmt.Errorf("resident %s: %w", residentID, ErrNotFound)
	}

	itemIDs := make([]uuid.UUID, 0, len(draft))
	for _, d := range draft {
		itemIDs = append(itemIDs, d.MedicineItemID)
	}
	items, err := ms.itemRepo.GetByIDs(ctx, nil, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check medicine items: %w", err)
	}
	if len(items) != len(draft) {
		return nil, fmt.Errorf("draft references a medicine item that no longer exists")
	}

	request := &types.MedicineRequest{
		ID:          uuid.New(),
		ResidentID:  residentID,
		Status:      types.MedicineRequestPending,
		Reason:      normalization.TrimInput(reason),
		RequestedAt: time.Now(),
	}
	for _, d := range draft {
		request.Items = append(request.Items, types.MedicineRequestItem{
			ID:             uuid.New(),
			RequestID:      request.ID,
			MedicineItemID: d.MedicineItemID,
			Quantity:       d.Quantity,
		})
	}
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ms.requestRepo.Create(ctx, tx, []*types.MedicineRequest{request})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to submit medicine request: %w", err)
	}
	if err := ms.drafts.Clear(ctx, userID); err != nil {
		ms.log.Warn("Failed to clear draft after submit", "user_id", userID, "error", err)
	}
	ms.notifyChanged(ctx)
	return request, nil
}

func (ms *medicineService) GetRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error) {
	found, err := ms.requestRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medicine request: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (ms *medicineService) ListRequests(ctx context.Context, status string, params repos.ListParams) ([]*types.MedicineRequest, int64, error) {
	return ms.requestRepo.List(ctx, nil, status, params)
}

func (ms *medicineService) ApproveRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error) {
	return ms.moveRequest(ctx, id, types.MedicineRequestPending, types.MedicineRequestApproved, false)
}

// ReleaseRequest hands the medicines over and decrements stock. The
// decrement happens inside the status transaction so a shortage on any
// line rolls the whole release back.
func (ms *medicineService) ReleaseRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error) {
	return ms.moveRequest(ctx, id, types.MedicineRequestApproved, types.MedicineRequestReleased, true)
}

func (ms *medicineService) RejectRequest(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error) {
	return ms.moveRequest(ctx, id, types.MedicineRequestPending, types.MedicineRequestRejected, false)
}

func (ms *medicineService) moveRequest(ctx context.Context, id uuid.UUID, from, to string, adjustStock bool) (*types.MedicineRequest, error) {
	request, err := ms.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != from {
		return nil, fmt.Errorf("request %s is %s, expected %s: %w", id, request.Status, from, ErrInvalidTransition)
	}
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if adjustStock {
			for _, line := range request.Items {
				if aErr := ms.itemRepo.AdjustStock(ctx, tx, line.MedicineItemID, -line.Quantity); aErr != nil {
					return fmt.Errorf("insufficient stock for item %s: %w", line.MedicineItemID, aErr)
				}
			}
		}
		return ms.requestRepo.UpdateStatus(ctx, tx, id, to)
	}); err != nil {
		return nil, err
	}
	request.Status = to
	ms.notifyChanged(ctx)
	return request, nil
}

func (ms *medicineService) notifyChanged(ctx context.Context) {
	if ms.cache != nil {
		if err := ms.cache.Invalidate(ctx, sse.ChannelMedicine); err != nil {
			ms.log.Warn("Failed to invalidate medicine listings", "error", err)
		}
	}
	if ms.hub != nil {
		ms.hub.Broadcast(sse.SSEMessage{Channel: sse.ChannelMedicine, Event: sse.SSEEventMedicineChanged})
	}
}
