// internal/workers/expressjob/apply-express-job/handler.go
package applyexpressjob

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
	TaskType = "outy-apply-express-job"
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

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(client, job, err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err)
		return err
	}

	return scope.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := scope.ParseVariables(job, inputSchema, &input); err != nil {
		return nil, err
	}
	return &input, nil
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

	var res *expressjob.ApplyResult
	if input.Interest {
		res, err = sc.Workflow.ExpressInterest(ctx, state)
	} else {
		res, err = sc.Workflow.SubmitApplication(ctx, state, expressjob.ApplicationInput{
			ProposedPrice: input.ProposedPrice,
			EstimatedTime: input.EstimatedTime,
			Message:       input.Message,
		})
	}
	if err != nil {
		return nil, err
	}

	after := state
	after.Applications = res.Applications
	after.Actor.WorkerProfileID = res.WorkerProfileID

	return &Output{
		ApplicationID:     res.Application.ID,
		ApplicationStatus: string(res.Application.Status),
		WorkerProfileID:   res.WorkerProfileID,
		ApplicationCount:  len(res.Applications),
		AlreadyApplied:    expressjob.AlreadyApplied(after),
	}, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	h.errors.HandleJobError(context.Background(), client, job, err)
}
