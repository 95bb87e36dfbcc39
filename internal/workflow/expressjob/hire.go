package expressjob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

const (
	AlreadyHiredMessage = "Este trabajo ya tiene una contratación"

	hireFailedMessage = "No se pudo completar la contratación. Intenta de nuevo."
)

type HireResult struct {
	Application    *models.Application
	Job            *models.ExpressJob
	ConversationID int64
	// Notified is false when the hire message could not be sent.
	Notified bool
}

// Hire accepts application on behalf of the job owner. Steps run in order
// and a failure aborts the rest:
//
//  1. accept the application
//  2. move the job to en_proceso
//  3. open the owner/applicant conversation
//  4. send the hire message (failure logged, not returned)
//
// Applications are re-fetched right before step 1. That check is advisory:
// two owners hiring at the same instant can both pass it and the API decides.
func (w *Workflow) Hire(ctx context.Context, s State, application models.Application) (res *HireResult, err error) {
	start := time.Now()
	defer func() {
		w.observe(ctx, "hire", s, start, &err, map[string]interface{}{"applicationId": application.ID})
	}()

	if !IsOwner(s) {
		return nil, errors.NewForbiddenError("Solo el dueño del trabajo puede contratar")
	}
	if s.Job.Status == models.JobStatusInProgress || AcceptedApplication(s) != nil {
		return nil, errors.NewHireError(AlreadyHiredMessage, nil)
	}
	if !CanTransition(s.Job.Status, models.JobStatusInProgress) {
		return nil, errors.NewHireError("Este trabajo ya no admite contrataciones", nil)
	}
	if application.ExpressJobID != 0 && application.ExpressJobID != s.Job.ID {
		return nil, errors.NewValidationError("La solicitud no pertenece a este trabajo",
			fmt.Sprintf("application %d belongs to job %d", application.ID, application.ExpressJobID))
	}

	fresh, err := w.api.GetExpressJobApplications(ctx, s.Job.ID)
	if err != nil {
		return nil, errors.NewHireError(outy.ErrorMessage(err, hireFailedMessage), err)
	}
	current := State{Job: s.Job, Applications: fresh, Actor: s.Actor}
	if AcceptedApplication(current) != nil {
		return nil, errors.NewHireError(AlreadyHiredMessage, nil)
	}
	target := findApplication(fresh, application.ID)
	if target == nil {
		return nil, errors.NewHireError("La solicitud ya no está disponible", nil)
	}

	price := hirePrice(*target, s.Job)

	// 1. accept
	accepted, err := w.api.UpdateExpressJobApplication(ctx, target.ID, models.ApplicationPatch{
		Status:        models.ApplicationAccepted,
		ProposedPrice: price,
		EstimatedTime: target.EstimatedTime,
		Message:       target.Message,
	})
	if err != nil {
		return nil, errors.NewHireError(outy.ErrorMessage(err, hireFailedMessage), err)
	}
	if accepted == nil || accepted.ID == 0 {
		merged := *target
		merged.Status = models.ApplicationAccepted
		accepted = &merged
	}
	if accepted.UserID == 0 {
		accepted.UserID = target.UserID
	}

	// 2. job status
	job, err := w.api.UpdateExpressJob(ctx, s.Job.ID, models.StatusPatch(models.JobStatusInProgress))
	if err != nil {
		return nil, errors.NewHireError(outy.ErrorMessage(err, hireFailedMessage), err).
			WithMetadata("applicationAccepted", true)
	}
	if job == nil || job.ID == 0 {
		updated := s.Job
		updated.Status = models.JobStatusInProgress
		job = &updated
	}

	res = &HireResult{Application: accepted, Job: job}

	// 3. conversation
	if accepted.UserID == 0 {
		return nil, errors.NewHireError(hireFailedMessage,
			fmt.Errorf("application %d has no applicant user id", accepted.ID)).
			WithMetadata("applicationAccepted", true)
	}
	conv, err := w.api.CreateConversation(ctx, s.Actor.UserID, accepted.UserID)
	if err != nil {
		return nil, errors.NewHireError(outy.ErrorMessage(err, hireFailedMessage), err).
			WithMetadata("applicationAccepted", true)
	}
	res.ConversationID = conv.ID

	// 4. notification
	if err := w.api.SendMessage(ctx, conv.ID, HireMessage(s.Job, *target, price)); err != nil {
		w.secondaryFailure("hire", "notify", s.Job.ID, err)
	} else {
		res.Notified = true
	}

	w.logger.Info("applicant hired", map[string]interface{}{
		"expressJobId":   s.Job.ID,
		"applicationId":  accepted.ID,
		"conversationId": conv.ID,
		"notified":       res.Notified,
	})
	return res, nil
}

func findApplication(apps []models.Application, id int64) *models.Application {
	for i := range apps {
		if apps[i].ID == id {
			app := apps[i]
			return &app
		}
	}
	return nil
}

// hirePrice is the applicant's proposed price, falling back to the job's
// minimum budget and then to 1.
func hirePrice(app models.Application, job models.ExpressJob) float64 {
	if p := app.ProposedPrice.Float64(); p > 0 {
		return p
	}
	if p := job.BudgetMin.Float64(); p > 0 {
		return p
	}
	return 1
}

// HireMessage is the automatic chat message sent to the hired worker.
func HireMessage(job models.ExpressJob, app models.Application, price float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola! Has sido contratado para el trabajo \"%s\".", job.Title)
	fmt.Fprintf(&b, "\nPrecio acordado: %s", FormatMoney(price, job.Currency))
	if app.EstimatedTime != "" {
		fmt.Fprintf(&b, "\nTiempo estimado: %s", app.EstimatedTime)
	}
	if loc := job.Location(); loc != "" {
		fmt.Fprintf(&b, "\nUbicación: %s", loc)
	}
	if msg := strings.TrimSpace(app.Message); msg != "" {
		fmt.Fprintf(&b, "\nTu mensaje: %s", msg)
	}
	return b.String()
}

// FormatMoney renders córdobas as "C$" and other currencies by code.
func FormatMoney(amount float64, currency string) string {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "", "NIO":
		return fmt.Sprintf("C$%.2f", amount)
	case "USD":
		return fmt.Sprintf("US$%.2f", amount)
	default:
		return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
	}
}
