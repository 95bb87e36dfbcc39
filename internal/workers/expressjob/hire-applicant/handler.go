// internal/workers/expressjob/hire-applicant/handler.go
package hireapplicant

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/models"
	"outy-workers/internal/workers/scope"
)

const (
	TaskType = "outy-hire-applicant"
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

	// Hire re-fetches the applications and reports a missing one itself.
	target := models.Application{ID: input.ApplicationID}
	for _, app := range state.Applications {
		if app.ID == input.ApplicationID {
			target = app
			break
		}
	}

	res, err := sc.Workflow.Hire(ctx, state, target)
	if err != nil {
		return nil, err
	}

	return &Output{
		ApplicationID:     res.Application.ID,
		ApplicationStatus: string(res.Application.Status),
		HiredUserID:       res.Application.UserID,
		HiredWorkerID:     res.Application.WorkerID,
		JobStatus:         string(res.Job.Status),
		ConversationID:    res.ConversationID,
		Notified:          res.Notified,
	}, nil
}
