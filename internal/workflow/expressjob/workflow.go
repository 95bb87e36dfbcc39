package expressjob

import (
	"context"
	"fmt"
	"time"

	"outy-workers/internal/common/audit"
	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/common/metrics"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

// API is the part of the Outy API the workflow drives.
type API interface {
	GetExpressJob(ctx context.Context, jobID int64) (*models.ExpressJob, error)
	GetExpressJobApplications(ctx context.Context, jobID int64) ([]models.Application, error)
	CreateExpressJobApplication(ctx context.Context, payload models.NewApplication) (*models.Application, error)
	UpdateExpressJobApplication(ctx context.Context, applicationID int64, patch models.ApplicationPatch) (*models.Application, error)
	UpdateExpressJob(ctx context.Context, jobID int64, patch models.JobPatch) (*models.ExpressJob, error)
	DeleteExpressJob(ctx context.Context, jobID int64) error
	CreateConversation(ctx context.Context, userA, userB int64) (*models.Conversation, error)
	SendMessage(ctx context.Context, conversationID int64, text string) error
	CreateWorkerReview(ctx context.Context, review models.WorkerReview) (*models.WorkerReview, error)
	ReportAd(ctx context.Context, report models.Report) error
}

var _ API = (outy.API)(nil)

// ProfileEnsurer guarantees a worker profile for a user before they apply.
type ProfileEnsurer interface {
	EnsureExists(ctx context.Context, userID int64, job *models.ExpressJob) (int64, error)
}

type Options struct {
	Recorder audit.Recorder
	Logger   logger.Logger
}

// Workflow runs the express-job operations. Every operation is attempt-once
// and sequential; secondary side effects never fail the primary action.
type Workflow struct {
	api      API
	profiles ProfileEnsurer
	recorder audit.Recorder
	logger   logger.Logger
}

func New(api API, profiles ProfileEnsurer, opts Options) *Workflow {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Workflow{
		api:      api,
		profiles: profiles,
		recorder: recorder,
		logger:   logger.OrNop(opts.Logger).WithFields(map[string]interface{}{"component": "express-job-workflow"}),
	}
}

// LoadState fetches the applications of job and returns the snapshot the
// predicates and operations work on. A job whose status is outside the
// known vocabulary is rejected before any call.
func (w *Workflow) LoadState(ctx context.Context, job models.ExpressJob, actor Actor) (State, error) {
	if !job.Status.Valid() {
		return State{}, errors.NewOperationError("loadState", "El trabajo tiene un estado desconocido",
			fmt.Errorf("express job %d has unknown status %q", job.ID, job.Status))
	}
	apps, err := w.api.GetExpressJobApplications(ctx, job.ID)
	if err != nil {
		return State{}, errors.NewOperationError("loadState",
			outy.ErrorMessage(err, "No se pudieron cargar las solicitudes"), err)
	}
	return State{Job: job, Applications: apps, Actor: actor}, nil
}

// LoadStateByID fetches the job first, then its applications.
func (w *Workflow) LoadStateByID(ctx context.Context, jobID int64, actor Actor) (State, error) {
	job, err := w.api.GetExpressJob(ctx, jobID)
	if err != nil {
		return State{}, errors.NewOperationError("loadState",
			outy.ErrorMessage(err, "No se pudo cargar el trabajo"), err)
	}
	return w.LoadState(ctx, *job, actor)
}

// observe records metrics and an audit event for an operation. It is
// deferred with a pointer to the operation's named error.
func (w *Workflow) observe(ctx context.Context, operation string, s State, start time.Time, errp *error, details map[string]interface{}) {
	outcome := "success"
	if errp != nil && *errp != nil {
		outcome = string(errors.AsStandardError(*errp).Code)
	}
	metrics.ObserveWorkflowOperation(operation, outcome, time.Since(start))

	event := audit.Event{
		Operation:    operation,
		ExpressJobID: s.Job.ID,
		ActorUserID:  s.Actor.UserID,
		Outcome:      outcome,
		Details:      details,
		OccurredAt:   time.Now().UTC(),
	}
	if err := w.recorder.Record(ctx, event); err != nil {
		w.logger.Warn("audit record failed", map[string]interface{}{
			"operation":    operation,
			"expressJobId": s.Job.ID,
			"error":        err,
		})
	}
}

// secondaryFailure logs and counts a swallowed side-effect failure.
func (w *Workflow) secondaryFailure(operation, step string, jobID int64, err error) {
	metrics.SecondaryFailures.WithLabelValues(operation, step).Inc()
	w.logger.Warn("secondary step failed", map[string]interface{}{
		"operation":    operation,
		"step":         step,
		"expressJobId": jobID,
		"error":        err,
	})
}
