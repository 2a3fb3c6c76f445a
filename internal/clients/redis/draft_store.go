package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/utils"
)

const draftKeyPrefix = "medicine_draft:"

// DraftItem is one line of a medicine request being assembled.
type DraftItem struct {
	MedicineItemID uuid.UUID `json:"medicine_item_id"`
	Quantity       int       `json:"quantity"`
}

// RequestDraftStore holds per-user medicine request drafts. Drafts are
// scratch state, not records: they expire on their own and are cleared
// when the request is submitted.
type RequestDraftStore interface {
	Get(ctx context.Context, userID uuid.UUID) ([]DraftItem, error)
	Put(ctx context.Context, userID uuid.UUID, items []DraftItem) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type redisDraftStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRequestDraftStore(log *logger.Logger) (RequestDraftStore, error) {
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	ttlHours := utils.GetEnvAsInt("MEDICINE_DRAFT_TTL_HOURS", 24, log)
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &redisDraftStore{
		log: log.With("service", "RedisDraftStore"),
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func (ds *redisDraftStore) Get(ctx context.Context, userID uuid.UUID) ([]DraftItem, error) {
	raw, err := ds.rdb.Get(ctx, draftKeyPrefix+userID.String()).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get draft for %s: %w", userID, err)
	}
	var items []DraftItem
	if err := json.Unmarshal(raw, &items); err != nil {
		ds.log.Warn("Draft payload unreadable, treating as empty", "user_id", userID, "error", err)
		return nil, nil
	}
	return items, nil
}

func (ds *redisDraftStore) Put(ctx context.Context, userID uuid.UUID, items []DraftItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal draft for %s: %w", userID, err)
	}
	if err := ds.rdb.Set(ctx, draftKeyPrefix+userID.String(), raw, ds.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft for %s: %w", userID, err)
	}
	return nil
}

func (ds *redisDraftStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := ds.rdb.Del(ctx, draftKeyPrefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("redis delete draft for %s: %w", userID, err)
	}
	return nil
}

// memoryDraftStore serves deployments running without Redis. Entries
// never expire; the process lifetime bounds them.
type memoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID][]DraftItem
}

func NewMemoryDraftStore() RequestDraftStore {
	return &memoryDraftStore{drafts: make(map[uuid.UUID][]DraftItem)}
}

func (ds *memoryDraftStore) Get(ctx context.Context, userID uuid.UUID) ([]DraftItem, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	items := ds.drafts[userID]
	out := make([]DraftItem, len(items))
	copy(out, items)
	return out, nil
}

func (ds *memoryDraftStore) Put(ctx context.Context, userID uuid.UUID, items []DraftItem) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	stored := make([]DraftItem, len(items))
	copy(stored, items)
	ds.drafts[userID] = stored
	return nil
}

func (ds *memoryDraftStore) Clear(ctx context.Context, userID uuid.UUID) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.drafts, userID)
	return nil
}
