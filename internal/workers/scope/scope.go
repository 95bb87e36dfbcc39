// Package scope binds the long-lived worker dependencies to the acting
// user of a single job.
package scope

import (
	"context"
	"strings"
	"sync"
	"time"

	"outy-workers/internal/common/audit"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/locations"
	"outy-workers/internal/outy"
	"outy-workers/internal/session"
	"outy-workers/internal/workflow/expressjob"
	"outy-workers/internal/workflow/profile"
)

// Deps are shared by every express-job worker. API carries no token of its
// own; each job's token is applied with WithToken.
type Deps struct {
	API      *outy.Client
	Store    session.Store
	CacheTTL time.Duration
	Scan     profile.ScanOptions
	Recorder audit.Recorder
	Logger   logger.Logger

	// Catalog is shared by every job. An empty catalog is warmed on first
	// use from the Store snapshot or the API.
	Catalog    *locations.Catalog
	CatalogTTL time.Duration

	catalogMu sync.Mutex
}

// Scope is everything a handler needs to act as one user.
type Scope struct {
	Actor    expressjob.Actor
	API      *outy.Client
	Profiles *profile.Bootstrap
	Workflow *expressjob.Workflow
	Session  *session.Session

	resolver profile.Resolver
	logger   logger.Logger
}

// For validates authToken, reads the user id from it and builds a Scope
// whose API calls authenticate as that user.
func (d *Deps) For(authToken string) (*Scope, error) {
	userID, err := session.UserIDFromToken(authToken)
	if err != nil {
		return nil, err
	}

	store := d.Store
	if store == nil {
		store = session.NewMemoryStore()
	}
	log := logger.OrNop(d.Logger).WithFields(map[string]interface{}{"actorUserId": userID})

	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(authToken), "Bearer "))
	api := d.API.WithToken(token)

	scan := d.Scan
	scan.Logger = log
	resolver := &jobResolver{next: session.NewCachedResolver(profile.NewScanResolver(api, scan), store, d.CacheTTL, log)}
	profiles := profile.NewBootstrap(api, resolver, log)

	return &Scope{
		Actor:    expressjob.Actor{UserID: userID},
		API:      api,
		Profiles: profiles,
		Workflow: expressjob.New(api, profiles, expressjob.Options{Recorder: d.Recorder, Logger: log}),
		Session:  session.New(api, session.Options{Store: store, TTL: d.CacheTTL, Logger: log}),
		resolver: resolver,
		logger:   log,
	}, nil
}

// ResolveWorkerProfile fills Actor.WorkerProfileID when the actor has a
// worker profile. A failed lookup leaves it zero; AlreadyApplied then
// matches by user id only.
func (s *Scope) ResolveWorkerProfile(ctx context.Context) {
	id, err := s.resolver.Resolve(ctx, s.Actor.UserID)
	if err != nil {
		s.logger.Warn("worker profile lookup failed", map[string]interface{}{"error": err})
		return
	}
	s.Actor.WorkerProfileID = id
}

// LoadState loads the job and its applications as seen by the actor.
func (s *Scope) LoadState(ctx context.Context, expressJobID int64) (expressjob.State, error) {
	return s.Workflow.LoadStateByID(ctx, expressJobID, s.Actor)
}

// Locations returns the shared catalog, loading it once if it is empty.
// A failed load is retried by the next caller.
func (d *Deps) Locations(ctx context.Context) (*locations.Catalog, error) {
	d.catalogMu.Lock()
	defer d.catalogMu.Unlock()

	if d.Catalog == nil {
		var source locations.Source
		if d.API != nil {
			source = d.API
		}
		d.Catalog = locations.NewCatalog(source, locations.Options{Logger: d.Logger})
	}
	if d.Catalog.Len() > 0 {
		return d.Catalog, nil
	}

	store := d.Store
	if store == nil {
		store = session.NewMemoryStore()
	}
	if _, err := session.WarmCatalog(ctx, d.Catalog, store, d.CatalogTTL, d.Logger); err != nil {
		return nil, err
	}
	return d.Catalog, nil
}

// jobResolver remembers the first lookup for the lifetime of one job,
// including a "no profile" answer, so ResolveWorkerProfile followed by
// EnsureExists scans the profile list once. Errors are not remembered.
type jobResolver struct {
	next profile.Resolver

	mu       sync.Mutex
	resolved bool
	userID   int64
	id       int64
}

func (r *jobResolver) Resolve(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved && r.userID == userID {
		return r.id, nil
	}
	id, err := r.next.Resolve(ctx, userID)
	if err != nil {
		return 0, err
	}
	r.resolved, r.userID, r.id = true, userID, id
	return id, nil
}
