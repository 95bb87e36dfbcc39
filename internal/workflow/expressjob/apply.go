package expressjob

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

const (
	DefaultInterestMessage = "Estoy interesado en realizar este trabajo."

	submitFailedMessage = "No se pudo enviar tu solicitud. Intenta de nuevo."
)

// ApplicationInput is what a worker fills in to apply. ProposedPrice is the
// raw text the user typed.
type ApplicationInput struct {
	ProposedPrice string
	EstimatedTime string
	Message       string
}

type ApplyResult struct {
	Application     *models.Application
	WorkerProfileID int64
	// Applications is the refreshed list, or the previous list plus the new
	// application when the refresh failed.
	Applications []models.Application
}

// ParsePrice accepts a finite number greater than zero.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.NewValidationError("Ingresa un precio", "proposed price is empty")
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errors.NewValidationError("Ingresa un precio válido", "proposed price is not a number: "+raw)
	}
	if price <= 0 {
		return 0, errors.NewValidationError("El precio debe ser mayor que cero", "proposed price must be positive: "+raw)
	}
	return price, nil
}

// checkCanApply explains why CanApply is false.
func checkCanApply(s State) error {
	switch {
	case s.Actor.UserID == 0:
		return errors.NewValidationError("Debes iniciar sesión para aplicar", "missing actor user id")
	case IsOwner(s):
		return errors.NewValidationError("No puedes aplicar a tu propio trabajo", "actor owns the job")
	case s.Job.Status != models.JobStatusOpen:
		return errors.NewValidationError("Este trabajo ya no acepta solicitudes", "job status is "+string(s.Job.Status))
	case AlreadyApplied(s):
		return errors.NewValidationError("Ya aplicaste a este trabajo", "actor already applied")
	}
	return nil
}

// SubmitApplication applies to the job on behalf of the actor. Input is
// validated before any network call, then the worker profile is ensured,
// the application created and the list refreshed.
func (w *Workflow) SubmitApplication(ctx context.Context, s State, in ApplicationInput) (res *ApplyResult, err error) {
	start := time.Now()
	defer func() { w.observe(ctx, "submitApplication", s, start, &err, applyDetails(res)) }()

	if err := checkCanApply(s); err != nil {
		return nil, err
	}
	price, err := ParsePrice(in.ProposedPrice)
	if err != nil {
		return nil, err
	}

	return w.apply(ctx, s, price, strings.TrimSpace(in.EstimatedTime), strings.TrimSpace(in.Message))
}

// ExpressInterest is a one-tap application at the job's minimum budget
// (or 1 when the job has none) with a default message.
func (w *Workflow) ExpressInterest(ctx context.Context, s State) (res *ApplyResult, err error) {
	start := time.Now()
	defer func() { w.observe(ctx, "expressInterest", s, start, &err, applyDetails(res)) }()

	if err := checkCanApply(s); err != nil {
		return nil, err
	}

	price := s.Job.BudgetMin.Float64()
	if price <= 0 {
		price = 1
	}
	return w.apply(ctx, s, price, s.Job.EstimatedDuration, DefaultInterestMessage)
}

func (w *Workflow) apply(ctx context.Context, s State, price float64, estimatedTime, message string) (*ApplyResult, error) {
	job := s.Job
	workerID, err := w.profiles.EnsureExists(ctx, s.Actor.UserID, &job)
	if err != nil {
		return nil, err
	}

	created, err := w.api.CreateExpressJobApplication(ctx, models.NewApplication{
		ExpressJobID:  s.Job.ID,
		WorkerID:      workerID,
		ProposedPrice: price,
		EstimatedTime: estimatedTime,
		Message:       message,
		Status:        models.ApplicationSent,
	})
	if err != nil {
		return nil, errors.NewSubmissionError(outy.ErrorMessage(err, submitFailedMessage), err)
	}

	w.logger.Info("application submitted", map[string]interface{}{
		"expressJobId":    s.Job.ID,
		"applicationId":   created.ID,
		"workerProfileId": workerID,
	})

	res := &ApplyResult{Application: created, WorkerProfileID: workerID}

	apps, err := w.api.GetExpressJobApplications(ctx, s.Job.ID)
	if err != nil {
		w.secondaryFailure("submitApplication", "refresh", s.Job.ID, err)
		apps = append(append([]models.Application{}, s.Applications...), *created)
	}
	res.Applications = apps
	return res, nil
}

func applyDetails(res *ApplyResult) map[string]interface{} {
	if res == nil || res.Application == nil {
		return nil
	}
	return map[string]interface{}{
		"applicationId":   res.Application.ID,
		"workerProfileId": res.WorkerProfileID,
	}
}
