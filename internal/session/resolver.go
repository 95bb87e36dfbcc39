package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"outy-workers/internal/common/logger"
	"outy-workers/internal/locations"
	"outy-workers/internal/models"
	"outy-workers/internal/workflow/profile"
)

// CachedResolver remembers positive profile lookups in a Store, so the
// paged scan runs at most once per user per TTL across worker processes.
type CachedResolver struct {
	next   profile.Resolver
	store  Store
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedResolver(next profile.Resolver, store Store, ttl time.Duration, log logger.Logger) *CachedResolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedResolver{next: next, store: store, ttl: ttl, logger: logger.OrNop(log)}
}

func (r *CachedResolver) Resolve(ctx context.Context, userID int64) (int64, error) {
	key := fmt.Sprintf("worker-profile:%d", userID)

	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("worker profile cache read failed", map[string]interface{}{"userId": userID, "error": err})
	} else if ok {
		if id, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil && id > 0 {
			return id, nil
		}
	}

	id, err := r.next.Resolve(ctx, userID)
	if err != nil || id == 0 {
		return id, err
	}
	if err := r.store.Set(ctx, key, []byte(strconv.FormatInt(id, 10)), r.ttl); err != nil {
		r.logger.Warn("worker profile cache write failed", map[string]interface{}{"userId": userID, "error": err})
	}
	return id, nil
}

var _ profile.Resolver = (*CachedResolver)(nil)

const catalogKey = "locations:nicaragua"

// CatalogTTL is the default lifetime of the stored catalog snapshot.
const CatalogTTL = 24 * time.Hour

// SaveCatalog stores a loaded location catalog snapshot.
func SaveCatalog(ctx context.Context, store Store, entries []models.LocationEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal catalog snapshot: %w", err)
	}
	return store.Set(ctx, catalogKey, raw, ttl)
}

// LoadCatalog returns a stored snapshot; ok is false on a miss.
func LoadCatalog(ctx context.Context, store Store) ([]models.LocationEntry, bool, error) {
	raw, ok, err := store.Get(ctx, catalogKey)
	if err != nil || !ok {
		return nil, false, err
	}
	var entries []models.LocationEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decode catalog snapshot: %w", err)
	}
	return entries, len(entries) > 0, nil
}

// WarmCatalog fills catalog from the stored snapshot when one exists, and
// otherwise loads it from its source and stores the result. fromCache
// reports which path was taken.
func WarmCatalog(ctx context.Context, catalog *locations.Catalog, store Store, ttl time.Duration, log logger.Logger) (fromCache bool, err error) {
	log = logger.OrNop(log)
	if ttl <= 0 {
		ttl = CatalogTTL
	}

	entries, ok, err := LoadCatalog(ctx, store)
	if err != nil {
		log.Warn("catalog snapshot unreadable, reloading", map[string]interface{}{"error": err})
	}
	if ok {
		catalog.Replace(entries)
		return true, nil
	}

	if err := catalog.LoadAll(ctx); err != nil {
		return false, err
	}
	if err := SaveCatalog(ctx, store, catalog.Entries(), ttl); err != nil {
		log.Warn("catalog snapshot not stored", map[string]interface{}{"error": err})
	}
	return false, nil
}
