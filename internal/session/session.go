// Package session owns the per-session memoization of read-only display
// data (photos, review stats) and the shared caches behind it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"outy-workers/internal/common/logger"
	"outy-workers/internal/common/metrics"
	"outy-workers/internal/models"
)

const (
	DefaultTTL         = 10 * time.Minute
	DefaultConcurrency = 8
)

// Reader is the read-only part of the Outy API the session memoizes.
type Reader interface {
	GetUserPhotoURL(ctx context.Context, userID int64) (string, error)
	GetWorkerReviewStats(ctx context.Context, workerID int64) (*models.ReviewStats, error)
}

type Options struct {
	Store       Store
	TTL         time.Duration
	Concurrency int
	Logger      logger.Logger
}

// Session memoizes photo URLs by user id and review stats by worker id.
// Lookups hit the in-process maps first, then the Store, then the API.
type Session struct {
	api         Reader
	store       Store
	ttl         time.Duration
	concurrency int
	logger      logger.Logger

	mu     sync.RWMutex
	photos map[int64]string
	stats  map[int64]models.ReviewStats
}

func New(api Reader, opts Options) *Session {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Session{
		api:         api,
		store:       opts.Store,
		ttl:         opts.TTL,
		concurrency: opts.Concurrency,
		logger:      logger.OrNop(opts.Logger).WithFields(map[string]interface{}{"component": "session-cache"}),
		photos:      make(map[int64]string),
		stats:       make(map[int64]models.ReviewStats),
	}
}

func photoKey(userID int64) string   { return fmt.Sprintf("photo:%d", userID) }
func statsKey(workerID int64) string { return fmt.Sprintf("review-stats:%d", workerID) }

// PhotoURL returns the user's photo URL, "" when they have none.
func (s *Session) PhotoURL(ctx context.Context, userID int64) (string, error) {
	s.mu.RLock()
	url, ok := s.photos[userID]
	s.mu.RUnlock()
	if ok {
		metrics.CacheLookups.WithLabelValues("photo", "memo").Inc()
		return url, nil
	}

	if raw, ok := s.storeGet(ctx, photoKey(userID)); ok {
		metrics.CacheLookups.WithLabelValues("photo", "store").Inc()
		url = string(raw)
		s.rememberPhoto(userID, url)
		return url, nil
	}

	metrics.CacheLookups.WithLabelValues("photo", "miss").Inc()
	url, err := s.api.GetUserPhotoURL(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("photo for user %d: %w", userID, err)
	}
	s.rememberPhoto(userID, url)
	s.storeSet(ctx, photoKey(userID), []byte(url))
	return url, nil
}

// ReviewStats returns the worker's rating summary.
func (s *Session) ReviewStats(ctx context.Context, workerID int64) (models.ReviewStats, error) {
	s.mu.RLock()
	st, ok := s.stats[workerID]
	s.mu.RUnlock()
	if ok {
		metrics.CacheLookups.WithLabelValues("review_stats", "memo").Inc()
		return st, nil
	}

	if raw, ok := s.storeGet(ctx, statsKey(workerID)); ok {
		if err := json.Unmarshal(raw, &st); err == nil {
			metrics.CacheLookups.WithLabelValues("review_stats", "store").Inc()
			s.rememberStats(workerID, st)
			return st, nil
		}
	}

	metrics.CacheLookups.WithLabelValues("review_stats", "miss").Inc()
	fetched, err := s.api.GetWorkerReviewStats(ctx, workerID)
	if err != nil {
		return models.ReviewStats{}, fmt.Errorf("review stats for worker %d: %w", workerID, err)
	}
	if fetched != nil {
		st = *fetched
	}
	st.WorkerID = workerID
	s.rememberStats(workerID, st)
	if raw, err := json.Marshal(st); err == nil {
		s.storeSet(ctx, statsKey(workerID), raw)
	}
	return st, nil
}

// Prefetch warms photos and review stats concurrently. Individual failures
// are logged and skipped; only ctx cancellation is returned.
func (s *Session) Prefetch(ctx context.Context, userIDs, workerIDs []int64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range dedupe(userIDs) {
		id := id
		g.Go(func() error {
			if _, err := s.PhotoURL(gctx, id); err != nil {
				s.logger.Warn("photo prefetch failed", map[string]interface{}{"userId": id, "error": err})
			}
			return nil
		})
	}
	for _, id := range dedupe(workerIDs) {
		id := id
		g.Go(func() error {
			if _, err := s.ReviewStats(gctx, id); err != nil {
				s.logger.Warn("review stats prefetch failed", map[string]interface{}{"workerId": id, "error": err})
			}
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}

// InvalidateReviewStats drops the worker's review stats from the memo and
// the store, so the next lookup reaches the API. Used after a review.
func (s *Session) InvalidateReviewStats(ctx context.Context, workerID int64) {
	s.mu.Lock()
	delete(s.stats, workerID)
	s.mu.Unlock()

	if err := s.store.Delete(ctx, statsKey(workerID)); err != nil {
		s.logger.Warn("cache delete failed", map[string]interface{}{"workerId": workerID, "error": err})
	}
}

func (s *Session) rememberPhoto(userID int64, url string) {
	s.mu.Lock()
	s.photos[userID] = url
	s.mu.Unlock()
}

func (s *Session) rememberStats(workerID int64, st models.ReviewStats) {
	s.mu.Lock()
	s.stats[workerID] = st
	s.mu.Unlock()
}

func (s *Session) storeGet(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}
	return raw, ok
}

func (s *Session) storeSet(ctx context.Context, key string, val []byte) {
	if err := s.store.Set(ctx, key, val, s.ttl); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
