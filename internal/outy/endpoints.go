package outy

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/models"
)

func (c *Client) GetExpressJob(ctx context.Context, jobID int64) (*models.ExpressJob, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/express-jobs/%d", jobID),
		endpoint: "express-jobs.get",
	})
	if err != nil {
		return nil, err
	}
	var job models.ExpressJob
	if err := decodeObject(body, &job); err != nil {
		return nil, fmt.Errorf("failed to decode express job: %w", err)
	}
	return &job, nil
}

func (c *Client) GetExpressJobApplications(ctx context.Context, jobID int64) ([]models.Application, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/express-jobs/%d/applications", jobID),
		endpoint: "express-jobs.applications",
	})
	if err != nil {
		return nil, err
	}
	apps, _, err := decodeList[models.Application](body)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (c *Client) CreateExpressJobApplication(ctx context.Context, payload models.NewApplication) (*models.Application, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/express-job-applications",
		endpoint: "applications.create",
		body:     payload,
	})
	if err != nil {
		return nil, err
	}
	var app models.Application
	if err := decodeObject(body, &app); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	return &app, nil
}

func (c *Client) UpdateExpressJobApplication(ctx context.Context, applicationID int64, patch models.ApplicationPatch) (*models.Application, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/express-job-applications/%d", applicationID),
		endpoint: "applications.update",
		body:     patch,
	})
	if err != nil {
		return nil, err
	}
	var app models.Application
	if err := decodeObject(body, &app); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	return &app, nil
}

func (c *Client) UpdateExpressJob(ctx context.Context, jobID int64, patch models.JobPatch) (*models.ExpressJob, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/express-jobs/%d", jobID),
		endpoint: "express-jobs.update",
		body:     patch,
	})
	if err != nil {
		return nil, err
	}
	var job models.ExpressJob
	if err := decodeObject(body, &job); err != nil {
		return nil, fmt.Errorf("failed to decode express job: %w", err)
	}
	return &job, nil
}

func (c *Client) DeleteExpressJob(ctx context.Context, jobID int64) error {
	_, err := c.do(ctx, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/express-jobs/%d", jobID),
		endpoint: "express-jobs.delete",
	})
	return err
}

func (c *Client) GetWorkerProfilesPaged(ctx context.Context, page, pageSize int) (*models.Page[models.WorkerProfile], error) {
	body, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/worker-profiles",
		endpoint: "worker-profiles.list",
		query:    pageQuery(page, pageSize),
	})
	if err != nil {
		return nil, err
	}
	items, total, err := decodeList[models.WorkerProfile](body)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.WorkerProfile]{Items: items, Total: total}, nil
}

func (c *Client) CreateWorkerProfile(ctx context.Context, profile models.WorkerProfile) (*models.WorkerProfile, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/worker-profiles",
		endpoint: "worker-profiles.create",
		body:     profile,
	})
	if err != nil {
		return nil, err
	}
	var created models.WorkerProfile
	if err := decodeObject(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode worker profile: %w", err)
	}
	return &created, nil
}

func (c *Client) GetCandidateProfile(ctx context.Context, userID int64) (*models.CandidateProfile, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/candidate-profiles/user/%d", userID),
		endpoint: "candidate-profiles.get",
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return nil, nil
		}
		return nil, err
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var profile models.CandidateProfile
	if err := decodeObject(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode candidate profile: %w", err)
	}
	if profile.ID == 0 && profile.UserID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (c *Client) CreateConversation(ctx context.Context, userA, userB int64) (*models.Conversation, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/conversations",
		endpoint: "conversations.create",
		body: map[string]interface{}{
			"participant_1": userA,
			"participant_2": userB,
		},
	})
	if err != nil {
		return nil, err
	}
	var conv models.Conversation
	if err := decodeObject(body, &conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	return &conv, nil
}

func (c *Client) SendMessage(ctx context.Context, conversationID int64, text string) error {
	_, err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/conversations/%d/messages", conversationID),
		endpoint: "conversations.messages.send",
		body:     models.Message{ConversationID: conversationID, Content: text},
	})
	return err
}

// CreateWorkerReview sends a deterministic Idempotency-Key derived from
// (worker, client, job) so the server can collapse resubmissions.
func (c *Client) CreateWorkerReview(ctx context.Context, review models.WorkerReview) (*models.WorkerReview, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/worker-reviews",
		endpoint: "worker-reviews.create",
		body:     review,
		headers:  map[string]string{"Idempotency-Key": ReviewIdempotencyKey(review)},
	})
	if err != nil {
		return nil, err
	}
	var created models.WorkerReview
	if err := decodeObject(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode worker review: %w", err)
	}
	return &created, nil
}

// ReviewIdempotencyKey is a name-based UUID over the review's natural key.
func ReviewIdempotencyKey(review models.WorkerReview) string {
	name := fmt.Sprintf("outy:worker-review:%d:%d:%d", review.WorkerID, review.ClientID, review.ExpressJobID)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func (c *Client) GetWorkerReviewStats(ctx context.Context, workerID int64) (*models.ReviewStats, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/worker-reviews/worker/%d/stats", workerID),
		endpoint: "worker-reviews.stats",
	})
	if err != nil {
		return nil, err
	}
	var raw struct {
		Average       models.Number `json:"average"`
		AverageRating models.Number `json:"average_rating"`
		Count         int           `json:"count"`
		TotalReviews  int           `json:"total_reviews"`
	}
	if err := decodeObject(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode review stats: %w", err)
	}
	stats := &models.ReviewStats{
		WorkerID: workerID,
		Average:  raw.Average.Float64(),
		Count:    raw.Count,
	}
	if stats.Average == 0 {
		stats.Average = raw.AverageRating.Float64()
	}
	if stats.Count == 0 {
		stats.Count = raw.TotalReviews
	}
	return stats, nil
}

func (c *Client) GetLocationsNicaragua(ctx context.Context, page, pageSize int) (*models.Page[models.LocationEntry], error) {
	body, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/locations/nicaragua",
		endpoint: "locations.list",
		query:    pageQuery(page, pageSize),
	})
	if err != nil {
		return nil, err
	}
	items, total, err := decodeList[models.LocationEntry](body)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.LocationEntry]{Items: items, Total: total}, nil
}

func (c *Client) ReportAd(ctx context.Context, report models.Report) error {
	_, err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/reports",
		endpoint: "reports.create",
		body:     report,
	})
	return err
}

func (c *Client) GetUserPhotoURL(ctx context.Context, userID int64) (string, error) {
	body, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/users/%d/photo", userID),
		endpoint: "users.photo",
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return "", nil
		}
		return "", err
	}
	var raw struct {
		URL      string `json:"url"`
		PhotoURL string `json:"photo_url"`
	}
	if err := decodeObject(body, &raw); err != nil {
		return "", fmt.Errorf("failed to decode photo: %w", err)
	}
	if raw.URL != "" {
		return raw.URL, nil
	}
	return raw.PhotoURL, nil
}
