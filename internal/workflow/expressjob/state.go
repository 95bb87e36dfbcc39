// Package expressjob coordinates the express-job lifecycle: applying,
// hiring, completion, review and moderation, on top of the Outy API.
//
// The predicates in this file are pure functions of State and carry no
// I/O; the operations in the other files use them as pre-flight checks.
package expressjob

import "outy-workers/internal/models"

// Actor is the user performing an operation. WorkerProfileID is zero when
// unknown.
type Actor struct {
	UserID          int64
	WorkerProfileID int64
}

// State is a snapshot of a job, its applications and who is looking at it.
type State struct {
	Job          models.ExpressJob
	Applications []models.Application
	Actor        Actor
}

func IsOwner(s State) bool {
	return s.Actor.UserID != 0 && s.Actor.UserID == s.Job.ClientID
}

// AlreadyApplied matches by worker profile id when the actor's is known,
// and by user id otherwise.
func AlreadyApplied(s State) bool {
	for _, app := range s.Applications {
		if s.Actor.WorkerProfileID != 0 && app.WorkerID == s.Actor.WorkerProfileID {
			return true
		}
		if s.Actor.UserID != 0 && app.UserID == s.Actor.UserID {
			return true
		}
	}
	return false
}

// AcceptedApplication returns the accepted application, or nil.
func AcceptedApplication(s State) *models.Application {
	for i := range s.Applications {
		if s.Applications[i].Status == models.ApplicationAccepted {
			app := s.Applications[i]
			return &app
		}
	}
	return nil
}

func HasHire(s State) bool {
	return s.Job.Status == models.JobStatusInProgress || AcceptedApplication(s) != nil
}

func IsHiredWorker(s State) bool {
	accepted := AcceptedApplication(s)
	return accepted != nil && s.Actor.UserID != 0 && accepted.UserID == s.Actor.UserID
}

func CanApply(s State) bool {
	return !IsOwner(s) && s.Job.Status == models.JobStatusOpen && !AlreadyApplied(s)
}

// EffectiveStatus is the job status with a half-finished hire folded in:
// an abierto job whose application was already accepted (the hire failed
// after step 1) counts as en_proceso.
func EffectiveStatus(s State) models.JobStatus {
	if s.Job.Status == models.JobStatusOpen && AcceptedApplication(s) != nil {
		return models.JobStatusInProgress
	}
	return s.Job.Status
}

func CanMarkCompleted(s State) bool {
	return (IsOwner(s) || IsHiredWorker(s)) &&
		AcceptedApplication(s) != nil &&
		EffectiveStatus(s) == models.JobStatusInProgress
}

func CanReview(s State) bool {
	return IsOwner(s) && AcceptedApplication(s) != nil && s.Job.Status == models.JobStatusCompleted
}

// Status bundles every predicate for display.
type Status struct {
	IsOwner          bool                `json:"isOwner"`
	AlreadyApplied   bool                `json:"alreadyApplied"`
	HasHire          bool                `json:"hasHire"`
	IsHiredWorker    bool                `json:"isHiredWorker"`
	CanApply         bool                `json:"canApply"`
	CanMarkCompleted bool                `json:"canMarkCompleted"`
	CanReview        bool                `json:"canReview"`
	Accepted         *models.Application `json:"accepted,omitempty"`
}

func Derive(s State) Status {
	return Status{
		IsOwner:          IsOwner(s),
		AlreadyApplied:   AlreadyApplied(s),
		HasHire:          HasHire(s),
		IsHiredWorker:    IsHiredWorker(s),
		CanApply:         CanApply(s),
		CanMarkCompleted: CanMarkCompleted(s),
		CanReview:        CanReview(s),
		Accepted:         AcceptedApplication(s),
	}
}

// CanTransition reports whether a job may move from one status to another.
// abierto -> en_proceso happens on hire and en_proceso -> completado on
// completion; nothing returns to abierto and cancelado is never entered
// by this client. Deletion is not a status change.
func CanTransition(from, to models.JobStatus) bool {
	switch from {
	case models.JobStatusOpen:
		return to == models.JobStatusInProgress
	case models.JobStatusInProgress:
		return to == models.JobStatusCompleted
	default:
		return false
	}
}
