// Package profile makes sure an acting user has a worker profile before
// they apply to or show interest in an express job.
package profile

import (
	"context"
	"fmt"

	"outy-workers/internal/common/logger"
	"outy-workers/internal/models"
)

const (
	DefaultScanPageSize = 100
	DefaultScanLimit    = 1000
)

// Resolver finds the worker profile id of a user. It returns 0 when the
// user has none.
type Resolver interface {
	Resolve(ctx context.Context, userID int64) (int64, error)
}

// ProfileLister pages through all worker profiles.
type ProfileLister interface {
	GetWorkerProfilesPaged(ctx context.Context, page, pageSize int) (*models.Page[models.WorkerProfile], error)
}

type ScanOptions struct {
	PageSize int
	Limit    int
	Logger   logger.Logger
}

// ScanResolver walks the paginated profile listing looking for the user.
// The API has no "my worker profile" endpoint; swap in an indexed Resolver
// once it does.
type ScanResolver struct {
	lister   ProfileLister
	pageSize int
	limit    int
	logger   logger.Logger
}

func NewScanResolver(lister ProfileLister, opts ScanOptions) *ScanResolver {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultScanPageSize
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultScanLimit
	}
	return &ScanResolver{
		lister:   lister,
		pageSize: opts.PageSize,
		limit:    opts.Limit,
		logger:   logger.OrNop(opts.Logger),
	}
}

func (r *ScanResolver) Resolve(ctx context.Context, userID int64) (int64, error) {
	if userID == 0 {
		return 0, nil
	}

	scanned := 0
	for page := 1; scanned < r.limit; page++ {
		result, err := r.lister.GetWorkerProfilesPaged(ctx, page, r.pageSize)
		if err != nil {
			return 0, fmt.Errorf("worker profile scan page %d: %w", page, err)
		}
		if result == nil {
			break
		}

		for _, p := range result.Items {
			if scanned >= r.limit {
				break
			}
			scanned++
			if p.UserID == userID && p.ID != 0 {
				r.logger.Debug("worker profile resolved", map[string]interface{}{
					"userId":          userID,
					"workerProfileId": p.ID,
					"scanned":         scanned,
				})
				return p.ID, nil
			}
		}

		if len(result.Items) < r.pageSize || (result.Total > 0 && page*r.pageSize >= result.Total) {
			break
		}
	}

	r.logger.Debug("worker profile not found", map[string]interface{}{
		"userId":  userID,
		"scanned": scanned,
	})
	return 0, nil
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, userID int64) (int64, error)

func (f ResolverFunc) Resolve(ctx context.Context, userID int64) (int64, error) {
	return f(ctx, userID)
}
