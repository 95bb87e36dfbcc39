// internal/workers/expressjob/load-express-job/handler.go
package loadexpressjob

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
	TaskType = "outy-load-express-job"
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
	h.logger.Debug("processing job", map[string]interface{}{
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
	sc.ResolveWorkerProfile(ctx)

	state, err := sc.LoadState(ctx, input.ExpressJobID)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Job:        state.Job,
		Applicants: make([]Applicant, 0, len(state.Applications)),
		Status:     expressjob.Derive(state),
		JobStatus:  string(state.Job.Status),
	}

	// Only the owner sees who applied.
	if !output.Status.IsOwner {
		return output, nil
	}

	if h.config.Prefetch {
		userIDs := make([]int64, 0, len(state.Applications))
		workerIDs := make([]int64, 0, len(state.Applications))
		for _, app := range state.Applications {
			userIDs = append(userIDs, app.UserID)
			workerIDs = append(workerIDs, app.WorkerID)
		}
		if err := sc.Session.Prefetch(ctx, userIDs, workerIDs); err != nil {
			return nil, errors.NewOperationError("loadState", "No se pudo cargar el trabajo", err)
		}
	}

	for _, app := range state.Applications {
		applicant := Applicant{Application: app}
		if h.config.Prefetch {
			// Served from the session memo after Prefetch; misses were logged there.
			if app.UserID != 0 {
				if url, err := sc.Session.PhotoURL(ctx, app.UserID); err == nil {
					applicant.PhotoURL = url
				}
			}
			if app.WorkerID == 0 {
				output.Applicants = append(output.Applicants, applicant)
				continue
			}
			if stats, err := sc.Session.ReviewStats(ctx, app.WorkerID); err == nil {
				applicant.AverageRating = stats.Average
				applicant.ReviewCount = stats.Count
			}
		}
		output.Applicants = append(output.Applicants, applicant)
	}
	return output, nil
}
