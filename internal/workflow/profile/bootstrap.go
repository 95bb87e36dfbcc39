package profile

import (
	"context"
	"fmt"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/common/metrics"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

const (
	DefaultTradeCategoryID = 1
	DefaultSpecialty       = "General"
	DefaultPhoneNumber     = "00000000"
	DefaultCurrency        = "NIO"

	createFailedMessage  = "No se pudo crear tu perfil de trabajador. Intenta de nuevo."
	resolveFailedMessage = "No se pudo verificar tu perfil de trabajador. Intenta de nuevo."
)

// API is the part of the Outy API the bootstrap needs.
type API interface {
	ProfileLister
	CreateWorkerProfile(ctx context.Context, profile models.WorkerProfile) (*models.WorkerProfile, error)
	GetCandidateProfile(ctx context.Context, userID int64) (*models.CandidateProfile, error)
}

type Bootstrap struct {
	api      API
	resolver Resolver
	logger   logger.Logger
}

// NewBootstrap wires a bootstrap. A nil resolver selects a ScanResolver
// with default bounds over api.
func NewBootstrap(api API, resolver Resolver, log logger.Logger) *Bootstrap {
	log = logger.OrNop(log).WithFields(map[string]interface{}{"component": "profile-bootstrap"})
	if resolver == nil {
		resolver = NewScanResolver(api, ScanOptions{Logger: log})
	}
	return &Bootstrap{api: api, resolver: resolver, logger: log}
}

// Resolve returns the user's worker profile id, or 0.
func (b *Bootstrap) Resolve(ctx context.Context, userID int64) (int64, error) {
	return b.resolver.Resolve(ctx, userID)
}

// EnsureExists returns the user's worker profile id, creating a profile
// with defaults derived from job and the user's candidate profile when none
// exists. It never retries.
func (b *Bootstrap) EnsureExists(ctx context.Context, userID int64, job *models.ExpressJob) (id int64, err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = string(errors.AsStandardError(err).Code)
		}
		metrics.ObserveWorkflowOperation("ensureWorkerProfile", outcome, time.Since(start))
	}()

	if userID == 0 {
		return 0, errors.NewValidationError("Debes iniciar sesión para continuar", "missing actor user id")
	}

	existing, err := b.resolver.Resolve(ctx, userID)
	if err != nil {
		return 0, errors.NewProfileBootstrapError(resolveFailedMessage, err)
	}
	if existing != 0 {
		return existing, nil
	}

	candidate, err := b.api.GetCandidateProfile(ctx, userID)
	if err != nil {
		b.logger.Warn("candidate profile unavailable, using defaults", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
		candidate = nil
	}

	payload := NewProfilePayload(userID, job, candidate)
	created, err := b.api.CreateWorkerProfile(ctx, payload)
	if err != nil {
		return 0, errors.NewProfileBootstrapError(outy.ErrorMessage(err, createFailedMessage), err)
	}
	if created == nil || created.ID == 0 {
		return 0, errors.NewProfileBootstrapError(createFailedMessage,
			fmt.Errorf("create worker profile returned no id for user %d", userID))
	}

	b.logger.Info("worker profile created", map[string]interface{}{
		"userId":          userID,
		"workerProfileId": created.ID,
	})
	return created.ID, nil
}

// NewProfilePayload builds the default worker profile for userID. job and
// candidate may be nil.
func NewProfilePayload(userID int64, job *models.ExpressJob, candidate *models.CandidateProfile) models.WorkerProfile {
	p := models.WorkerProfile{
		UserID:          userID,
		FullName:        candidate.DisplayName(),
		TradeCategoryID: DefaultTradeCategoryID,
		Specialty:       DefaultSpecialty,
		PhoneNumber:     DefaultPhoneNumber,
		Available:       true,
		Currency:        DefaultCurrency,
	}

	if job != nil {
		if job.TradeCategoryID != 0 {
			p.TradeCategoryID = job.TradeCategoryID
		}
		p.LocationID = job.LocationID
	}

	if candidate != nil {
		if candidate.Profession != "" {
			p.Specialty = candidate.Profession
		}
		if candidate.PhoneNumber != "" {
			p.PhoneNumber = candidate.PhoneNumber
		}
		if candidate.LocationID != 0 {
			p.LocationID = candidate.LocationID
		}
	}
	return p
}
