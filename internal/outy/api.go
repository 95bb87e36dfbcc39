// Package outy is a typed client for the Outy REST API. It shapes requests,
// attaches the bearer token and decodes errors; it owns no business rules.
package outy

import (
	"context"

	"outy-workers/internal/models"
)

// API is the surface of the Outy REST API consumed by the workflow.
type API interface {
	GetExpressJob(ctx context.Context, jobID int64) (*models.ExpressJob, error)
	GetExpressJobApplications(ctx context.Context, jobID int64) ([]models.Application, error)
	CreateExpressJobApplication(ctx context.Context, payload models.NewApplication) (*models.Application, error)
	UpdateExpressJobApplication(ctx context.Context, applicationID int64, patch models.ApplicationPatch) (*models.Application, error)
	UpdateExpressJob(ctx context.Context, jobID int64, patch models.JobPatch) (*models.ExpressJob, error)
	DeleteExpressJob(ctx context.Context, jobID int64) error

	GetWorkerProfilesPaged(ctx context.Context, page, pageSize int) (*models.Page[models.WorkerProfile], error)
	CreateWorkerProfile(ctx context.Context, profile models.WorkerProfile) (*models.WorkerProfile, error)
	// GetCandidateProfile returns nil, nil when the user has no profile.
	GetCandidateProfile(ctx context.Context, userID int64) (*models.CandidateProfile, error)

	CreateConversation(ctx context.Context, userA, userB int64) (*models.Conversation, error)
	SendMessage(ctx context.Context, conversationID int64, text string) error

	CreateWorkerReview(ctx context.Context, review models.WorkerReview) (*models.WorkerReview, error)
	GetWorkerReviewStats(ctx context.Context, workerID int64) (*models.ReviewStats, error)

	GetLocationsNicaragua(ctx context.Context, page, pageSize int) (*models.Page[models.LocationEntry], error)
	ReportAd(ctx context.Context, report models.Report) error

	// GetUserPhotoURL returns "" when the user has no photo.
	GetUserPhotoURL(ctx context.Context, userID int64) (string, error)
}

var _ API = (*Client)(nil)
