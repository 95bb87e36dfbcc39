package expressjob

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

// CompletionMarker is embedded in the completion chat message so the
// owner's client can open the rating prompt from the conversation.
type CompletionMarker struct {
	JobID    int64
	WorkerID int64
}

func (m CompletionMarker) String() string {
	return fmt.Sprintf("[OUTY_RATE job=%d worker=%d]", m.JobID, m.WorkerID)
}

var markerPattern = regexp.MustCompile(`\[OUTY_RATE job=(\d+) worker=(\d+)\]`)

// ParseCompletionMarker finds the first marker in text.
func ParseCompletionMarker(text string) (CompletionMarker, bool) {
	m := markerPattern.FindStringSubmatch(text)
	if m == nil {
		return CompletionMarker{}, false
	}
	jobID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return CompletionMarker{}, false
	}
	workerID, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return CompletionMarker{}, false
	}
	return CompletionMarker{JobID: jobID, WorkerID: workerID}, true
}

// CompletionMessage is the chat message sent when a job is completed.
func CompletionMessage(job models.ExpressJob, accepted models.Application) string {
	marker := CompletionMarker{JobID: job.ID, WorkerID: accepted.WorkerID}
	return fmt.Sprintf("El trabajo \"%s\" fue marcado como completado. ¡Califica al trabajador! %s", job.Title, marker)
}

type CompletionResult struct {
	Job      *models.ExpressJob
	Notified bool
}

// MarkCompleted moves a hired job to completado and, best effort, posts the
// completion message with the rating marker to the owner/worker chat. A job
// left abierto by a hire that failed after accepting is completed too.
func (w *Workflow) MarkCompleted(ctx context.Context, s State) (res *CompletionResult, err error) {
	start := time.Now()
	defer func() { w.observe(ctx, "markCompleted", s, start, &err, nil) }()

	accepted := AcceptedApplication(s)
	if accepted == nil {
		return nil, errors.NewNotHiredError(s.Job.ID)
	}
	if !IsOwner(s) && !IsHiredWorker(s) {
		return nil, errors.NewForbiddenError("Solo el dueño o el trabajador contratado pueden completar este trabajo")
	}
	if s.Job.Status == models.JobStatusCompleted {
		return nil, errors.NewValidationError("Este trabajo ya fue completado", "job already completado")
	}
	if !CanTransition(EffectiveStatus(s), models.JobStatusCompleted) {
		return nil, errors.NewValidationError("Este trabajo no está en proceso", "job status is "+string(s.Job.Status))
	}

	job, err := w.api.UpdateExpressJob(ctx, s.Job.ID, models.StatusPatch(models.JobStatusCompleted))
	if err != nil {
		return nil, errors.NewOperationError("markCompleted",
			outy.ErrorMessage(err, "No se pudo marcar el trabajo como completado"), err)
	}
	if job == nil || job.ID == 0 {
		updated := s.Job
		updated.Status = models.JobStatusCompleted
		job = &updated
	}
	res = &CompletionResult{Job: job}

	if err := w.notifyCompletion(ctx, s.Job, *accepted); err != nil {
		w.secondaryFailure("markCompleted", "notify", s.Job.ID, err)
	} else {
		res.Notified = true
	}

	w.logger.Info("express job completed", map[string]interface{}{
		"expressJobId": s.Job.ID,
		"workerId":     accepted.WorkerID,
		"notified":     res.Notified,
	})
	return res, nil
}

func (w *Workflow) notifyCompletion(ctx context.Context, job models.ExpressJob, accepted models.Application) error {
	if accepted.UserID == 0 || job.ClientID == 0 {
		return fmt.Errorf("missing conversation participants for job %d", job.ID)
	}
	conv, err := w.api.CreateConversation(ctx, job.ClientID, accepted.UserID)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	if err := w.api.SendMessage(ctx, conv.ID, CompletionMessage(job, accepted)); err != nil {
		return fmt.Errorf("send completion message: %w", err)
	}
	return nil
}
