// internal/workers/expressjob/review-worker/handler.go
package reviewworker

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/workers/scope"
	"outy-workers/internal/workflow/expressjob"
)

const (
	TaskType = "outy-review-worker"
)

type Handler struct {
	config *Config
	deps   *scope.Deps
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, deps *scope.Deps, log logger.Logger) *Handler {
	log = logger.OrNop(log).WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		deps:   deps,
		errors: errors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := scope.ParseVariables(job, inputSchema, &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return err
	}

	return scope.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sc, err := h.deps.For(input.AuthToken)
	if err != nil {
		return nil, err
	}

	state, err := sc.LoadState(ctx, input.ExpressJobID)
	if err != nil {
		return nil, err
	}

	review, err := sc.Workflow.SubmitOwnerReview(ctx, state, input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}

	workerID := review.WorkerID
	if workerID == 0 {
		workerID = expressjob.AcceptedApplication(state).WorkerID
	}
	output := &Output{
		ReviewID: review.ID,
		WorkerID: workerID,
		Rating:   input.Rating,
	}

	// The cached summary is stale now; fetch the fresh one for the output.
	sc.Session.InvalidateReviewStats(ctx, workerID)
	stats, err := sc.Session.ReviewStats(ctx, workerID)
	if err != nil {
		h.logger.Warn("review stats refresh failed", map[string]interface{}{
			"workerId": workerID,
			"error":    err,
		})
		return output, nil
	}
	output.AverageRating = stats.Average
	output.ReviewCount = stats.Count
	return output, nil
}
