package expressjob

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"outy-workers/internal/common/audit"
	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

// ==========================
// Test Doubles
// ==========================

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetExpressJob(ctx context.Context, jobID int64) (*models.ExpressJob, error) {
	args := m.Called(ctx, jobID)
	if j := args.Get(0); j != nil {
		return j.(*models.ExpressJob), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetExpressJobApplications(ctx context.Context, jobID int64) ([]models.Application, error) {
	args := m.Called(ctx, jobID)
	if a := args.Get(0); a != nil {
		return a.([]models.Application), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) CreateExpressJobApplication(ctx context.Context, payload models.NewApplication) (*models.Application, error) {
	args := m.Called(ctx, payload)
	if a := args.Get(0); a != nil {
		return a.(*models.Application), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) UpdateExpressJobApplication(ctx context.Context, applicationID int64, patch models.ApplicationPatch) (*models.Application, error) {
	args := m.Called(ctx, applicationID, patch)
	if a := args.Get(0); a != nil {
		return a.(*models.Application), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) UpdateExpressJob(ctx context.Context, jobID int64, patch models.JobPatch) (*models.ExpressJob, error) {
	args := m.Called(ctx, jobID, patch)
	if j := args.Get(0); j != nil {
		return j.(*models.ExpressJob), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) DeleteExpressJob(ctx context.Context, jobID int64) error {
	return m.Called(ctx, jobID).Error(0)
}

func (m *mockAPI) CreateConversation(ctx context.Context, userA, userB int64) (*models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if c := args.Get(0); c != nil {
		return c.(*models.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) SendMessage(ctx context.Context, conversationID int64, text string) error {
	return m.Called(ctx, conversationID, text).Error(0)
}

func (m *mockAPI) CreateWorkerReview(ctx context.Context, review models.WorkerReview) (*models.WorkerReview, error) {
	args := m.Called(ctx, review)
	if r := args.Get(0); r != nil {
		return r.(*models.WorkerReview), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) ReportAd(ctx context.Context, report models.Report) error {
	return m.Called(ctx, report).Error(0)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) EnsureExists(ctx context.Context, userID int64, job *models.ExpressJob) (int64, error) {
	args := m.Called(ctx, userID, job)
	return args.Get(0).(int64), args.Error(1)
}

type recordingAuditor struct {
	events []audit.Event
}

func (r *recordingAuditor) Record(_ context.Context, e audit.Event) error {
	r.events = append(r.events, e)
	return nil
}

func statusPatch(s models.JobStatus) models.JobPatch { return models.StatusPatch(s) }

func newWorkflow(t *testing.T) (*Workflow, *mockAPI, *mockProfiles, *recordingAuditor) {
	api := new(mockAPI)
	profiles := new(mockProfiles)
	rec := &recordingAuditor{}
	wf := New(api, profiles, Options{Recorder: rec, Logger: logger.NewTestLogger(t)})
	return wf, api, profiles, rec
}

func openJob() models.ExpressJob {
	return models.ExpressJob{
		ID:                1,
		ClientID:          9,
		Title:             "Reparar lavadero",
		Status:            models.JobStatusOpen,
		BudgetMin:         300,
		Currency:          "NIO",
		Department:        "Managua",
		Municipality:      "Managua",
		EstimatedDuration: "1 día",
	}
}

// ==========================
// SubmitApplication
// ==========================

func TestSubmitApplication_Success(t *testing.T) {
	wf, api, profiles, rec := newWorkflow(t)
	s := State{Job: openJob(), Actor: Actor{UserID: 50}}

	profiles.On("EnsureExists", mock.Anything, int64(50), mock.AnythingOfType("*models.ExpressJob")).Return(int64(5), nil)
	api.On("CreateExpressJobApplication", mock.Anything, models.NewApplication{
		ExpressJobID:  1,
		WorkerID:      5,
		ProposedPrice: 450,
		EstimatedTime: "3 horas",
		Message:       "Puedo hoy",
		Status:        models.ApplicationSent,
	}).Return(&models.Application{ID: 70, ExpressJobID: 1, WorkerID: 5, Status: models.ApplicationSent}, nil)
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).
		Return([]models.Application{{ID: 70, WorkerID: 5, Status: models.ApplicationSent}}, nil)

	res, err := wf.SubmitApplication(context.Background(), s, ApplicationInput{
		ProposedPrice: "450",
		EstimatedTime: " 3 horas ",
		Message:       "Puedo hoy",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(70), res.Application.ID)
	assert.Equal(t, int64(5), res.WorkerProfileID)
	assert.Len(t, res.Applications, 1)
	api.AssertExpectations(t)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "submitApplication", rec.events[0].Operation)
	assert.Equal(t, "success", rec.events[0].Outcome)
}

func TestSubmitApplication_NegativePriceRejectedBeforeNetwork(t *testing.T) {
	wf, api, profiles, rec := newWorkflow(t)
	s := State{Job: openJob(), Actor: Actor{UserID: 50}}

	_, err := wf.SubmitApplication(context.Background(), s, ApplicationInput{ProposedPrice: "-5"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Empty(t, api.Calls)
	assert.Empty(t, profiles.Calls)
	assert.Equal(t, string(errors.ErrCodeValidationFailed), rec.events[0].Outcome)
}

func TestSubmitApplication_PreconditionFailures(t *testing.T) {
	tests := []struct {
		name string
		s    State
		msg  string
	}{
		{
			name: "owner",
			s:    State{Job: openJob(), Actor: Actor{UserID: 9}},
			msg:  "No puedes aplicar a tu propio trabajo",
		},
		{
			name: "already applied",
			s: State{
				Job:          openJob(),
				Applications: []models.Application{{WorkerID: 5, Status: models.ApplicationSent}},
				Actor:        Actor{UserID: 50, WorkerProfileID: 5},
			},
			msg: "Ya aplicaste a este trabajo",
		},
		{
			name: "not open",
			s: func() State {
				j := openJob()
				j.Status = models.JobStatusInProgress
				return State{Job: j, Actor: Actor{UserID: 50}}
			}(),
			msg: "Este trabajo ya no acepta solicitudes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, api, profiles, _ := newWorkflow(t)
			_, err := wf.SubmitApplication(context.Background(), tt.s, ApplicationInput{ProposedPrice: "100"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))
			assert.Equal(t, tt.msg, errors.AsStandardError(err).Message)
			assert.Empty(t, api.Calls)
			assert.Empty(t, profiles.Calls)
		})
	}
}

func TestSubmitApplication_BootstrapFailureAborts(t *testing.T) {
	wf, api, profiles, _ := newWorkflow(t)
	bootErr := errors.NewProfileBootstrapError("No se pudo crear tu perfil", fmt.Errorf("500"))
	profiles.On("EnsureExists", mock.Anything, int64(50), mock.Anything).Return(int64(0), bootErr)

	_, err := wf.SubmitApplication(context.Background(), State{Job: openJob(), Actor: Actor{UserID: 50}},
		ApplicationInput{ProposedPrice: "100"})

	assert.Same(t, bootErr, err)
	api.AssertNotCalled(t, "CreateExpressJobApplication", mock.Anything, mock.Anything)
}

func TestSubmitApplication_CreateFailureIsSubmissionError(t *testing.T) {
	wf, api, profiles, _ := newWorkflow(t)
	profiles.On("EnsureExists", mock.Anything, int64(50), mock.Anything).Return(int64(5), nil)
	api.On("CreateExpressJobApplication", mock.Anything, mock.Anything).
		Return(nil, &outy.APIError{Status: 409, Data: []byte(`[{"message":"Ya existe una solicitud"}]`)}).Once()

	_, err := wf.SubmitApplication(context.Background(), State{Job: openJob(), Actor: Actor{UserID: 50}},
		ApplicationInput{ProposedPrice: "100"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSubmission))
	assert.Equal(t, "Ya existe una solicitud", errors.AsStandardError(err).Message)
	api.AssertNotCalled(t, "GetExpressJobApplications", mock.Anything, mock.Anything)
}

func TestSubmitApplication_RefreshFailureIsSwallowed(t *testing.T) {
	wf, api, profiles, _ := newWorkflow(t)
	existing := models.Application{ID: 1, WorkerID: 8}
	profiles.On("EnsureExists", mock.Anything, int64(50), mock.Anything).Return(int64(5), nil)
	api.On("CreateExpressJobApplication", mock.Anything, mock.Anything).
		Return(&models.Application{ID: 70, WorkerID: 5}, nil)
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return(nil, fmt.Errorf("timeout"))

	res, err := wf.SubmitApplication(context.Background(),
		State{Job: openJob(), Applications: []models.Application{existing}, Actor: Actor{UserID: 50}},
		ApplicationInput{ProposedPrice: "100"})

	require.NoError(t, err)
	require.Len(t, res.Applications, 2)
	assert.Equal(t, int64(70), res.Applications[1].ID)
}

func TestExpressInterest_UsesBudgetMinOrOne(t *testing.T) {
	for _, tc := range []struct {
		budget float64
		want   float64
	}{{300, 300}, {0, 1}} {
		wf, api, profiles, _ := newWorkflow(t)
		job := openJob()
		job.BudgetMin = models.Number(tc.budget)

		profiles.On("EnsureExists", mock.Anything, int64(50), mock.Anything).Return(int64(5), nil)
		api.On("CreateExpressJobApplication", mock.Anything, models.NewApplication{
			ExpressJobID:  1,
			WorkerID:      5,
			ProposedPrice: tc.want,
			EstimatedTime: "1 día",
			Message:       DefaultInterestMessage,
			Status:        models.ApplicationSent,
		}).Return(&models.Application{ID: 71}, nil)
		api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return([]models.Application{{ID: 71}}, nil)

		_, err := wf.ExpressInterest(context.Background(), State{Job: job, Actor: Actor{UserID: 50}})
		require.NoError(t, err)
		api.AssertExpectations(t)
	}
}

// ==========================
// Hire
// ==========================

func hireFixture() (State, models.Application) {
	app := models.Application{
		ID:            70,
		ExpressJobID:  1,
		WorkerID:      5,
		UserID:        50,
		ProposedPrice: 450,
		EstimatedTime: "3 horas",
		Message:       "Puedo hoy",
		Status:        models.ApplicationSent,
	}
	return State{Job: openJob(), Applications: []models.Application{app}, Actor: Actor{UserID: 9}}, app
}

func TestHire_UpdatesApplicationBeforeJob(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()

	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return([]models.Application{app}, nil)
	api.On("UpdateExpressJobApplication", mock.Anything, int64(70), models.ApplicationPatch{
		Status:        models.ApplicationAccepted,
		ProposedPrice: 450,
		EstimatedTime: "3 horas",
		Message:       "Puedo hoy",
	}).Return(&models.Application{ID: 70, WorkerID: 5, UserID: 50, Status: models.ApplicationAccepted}, nil)
	api.On("UpdateExpressJob", mock.Anything, int64(1), statusPatch(models.JobStatusInProgress)).
		Return(&models.ExpressJob{ID: 1, Status: models.JobStatusInProgress}, nil)
	api.On("CreateConversation", mock.Anything, int64(9), int64(50)).Return(&models.Conversation{ID: 33}, nil)
	api.On("SendMessage", mock.Anything, int64(33), mock.MatchedBy(func(text string) bool {
		return text == HireMessage(s.Job, app, 450)
	})).Return(nil)

	res, err := wf.Hire(context.Background(), s, app)

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, res.Application.Status)
	assert.Equal(t, models.JobStatusInProgress, res.Job.Status)
	assert.Equal(t, int64(33), res.ConversationID)
	assert.True(t, res.Notified)

	var order []string
	for _, c := range api.Calls {
		order = append(order, c.Method)
	}
	assert.Equal(t, []string{
		"GetExpressJobApplications",
		"UpdateExpressJobApplication",
		"UpdateExpressJob",
		"CreateConversation",
		"SendMessage",
	}, order)
}

func TestHire_AlreadyInProgressIssuesZeroCalls(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	s.Job.Status = models.JobStatusInProgress

	_, err := wf.Hire(context.Background(), s, app)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrHire))
	assert.Contains(t, err.Error(), "ya tiene una contratación")
	assert.Empty(t, api.Calls)
}

func TestHire_LocalAcceptedApplicationIssuesZeroCalls(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	s.Applications = append(s.Applications, models.Application{ID: 71, Status: models.ApplicationAccepted})

	_, err := wf.Hire(context.Background(), s, app)

	assert.True(t, errors.Is(err, errors.ErrHire))
	assert.Empty(t, api.Calls)
}

func TestHire_RecheckFindsConcurrentAccept(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	other := models.Application{ID: 71, WorkerID: 6, Status: models.ApplicationAccepted}
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return([]models.Application{app, other}, nil)

	_, err := wf.Hire(context.Background(), s, app)

	require.Error(t, err)
	assert.Equal(t, AlreadyHiredMessage, errors.AsStandardError(err).Message)
	api.AssertNotCalled(t, "UpdateExpressJobApplication", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "UpdateExpressJob", mock.Anything, mock.Anything, mock.Anything)
}

func TestHire_NonOwnerForbidden(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	s.Actor = Actor{UserID: 50}

	_, err := wf.Hire(context.Background(), s, app)

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	assert.Empty(t, api.Calls)
}

func TestHire_AcceptFailureAbortsJobUpdate(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return([]models.Application{app}, nil)
	api.On("UpdateExpressJobApplication", mock.Anything, int64(70), mock.Anything).
		Return(nil, &outy.APIError{Status: 500, Message: "Error interno"})

	_, err := wf.Hire(context.Background(), s, app)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrHire))
	assert.Equal(t, "Error interno", errors.AsStandardError(err).Message)
	api.AssertNotCalled(t, "UpdateExpressJob", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "CreateConversation", mock.Anything, mock.Anything, mock.Anything)
}

func TestHire_JobUpdateFailureAbortsConversation(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return([]models.Application{app}, nil)
	api.On("UpdateExpressJobApplication", mock.Anything, int64(70), mock.Anything).
		Return(&models.Application{ID: 70, UserID: 50, Status: models.ApplicationAccepted}, nil)
	api.On("UpdateExpressJob", mock.Anything, int64(1), mock.Anything).Return(nil, fmt.Errorf("503"))

	_, err := wf.Hire(context.Background(), s, app)

	require.Error(t, err)
	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeHireFailed, stdErr.Code)
	assert.Equal(t, true, stdErr.Metadata["applicationAccepted"])
	api.AssertNotCalled(t, "CreateConversation", mock.Anything, mock.Anything, mock.Anything)
}

func TestHire_NotificationFailureIsSwallowed(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return([]models.Application{app}, nil)
	api.On("UpdateExpressJobApplication", mock.Anything, int64(70), mock.Anything).
		Return(&models.Application{ID: 70, UserID: 50, Status: models.ApplicationAccepted}, nil)
	api.On("UpdateExpressJob", mock.Anything, int64(1), mock.Anything).
		Return(&models.ExpressJob{ID: 1, Status: models.JobStatusInProgress}, nil)
	api.On("CreateConversation", mock.Anything, int64(9), int64(50)).Return(&models.Conversation{ID: 33}, nil)
	api.On("SendMessage", mock.Anything, int64(33), mock.Anything).Return(fmt.Errorf("socket closed"))

	res, err := wf.Hire(context.Background(), s, app)

	require.NoError(t, err)
	assert.False(t, res.Notified)
	assert.Equal(t, int64(33), res.ConversationID)
}

func TestHire_PriceFallsBackToBudgetThenOne(t *testing.T) {
	job := openJob()
	app := models.Application{ID: 1}
	assert.Equal(t, 300.0, hirePrice(app, job))

	job.BudgetMin = 0
	assert.Equal(t, 1.0, hirePrice(app, job))

	app.ProposedPrice = 80
	assert.Equal(t, 80.0, hirePrice(app, job))
}

func TestHire_ApplicationVanished(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return([]models.Application{}, nil)

	_, err := wf.Hire(context.Background(), s, app)

	assert.True(t, errors.Is(err, errors.ErrHire))
	api.AssertNumberOfCalls(t, "GetExpressJobApplications", 1)
	assert.Len(t, api.Calls, 1)
}

// ==========================
// MarkCompleted
// ==========================

func hiredState(actor int64) State {
	job := openJob()
	job.Status = models.JobStatusInProgress
	return State{
		Job:          job,
		Applications: []models.Application{{ID: 70, WorkerID: 5, UserID: 50, Status: models.ApplicationAccepted}},
		Actor:        Actor{UserID: actor},
	}
}

func TestMarkCompleted_NotHired(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s := State{Job: openJob(), Actor: Actor{UserID: 9}}

	_, err := wf.MarkCompleted(context.Background(), s)

	assert.True(t, errors.Is(err, errors.ErrNotHired))
	assert.Empty(t, api.Calls)
}

func TestMarkCompleted_ByHiredWorkerWithMarker(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s := hiredState(50)

	api.On("UpdateExpressJob", mock.Anything, int64(1), statusPatch(models.JobStatusCompleted)).
		Return(&models.ExpressJob{ID: 1, Status: models.JobStatusCompleted}, nil)
	api.On("CreateConversation", mock.Anything, int64(9), int64(50)).Return(&models.Conversation{ID: 33}, nil)
	api.On("SendMessage", mock.Anything, int64(33), mock.MatchedBy(func(text string) bool {
		m, ok := ParseCompletionMarker(text)
		return ok && m.JobID == 1 && m.WorkerID == 5
	})).Return(nil)

	res, err := wf.MarkCompleted(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, res.Job.Status)
	assert.True(t, res.Notified)
	api.AssertExpectations(t)
}

func TestMarkCompleted_MessageFailureSwallowed(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s := hiredState(9)

	api.On("UpdateExpressJob", mock.Anything, int64(1), mock.Anything).Return(nil, nil)
	api.On("CreateConversation", mock.Anything, int64(9), int64(50)).Return(nil, fmt.Errorf("down"))

	res, err := wf.MarkCompleted(context.Background(), s)

	require.NoError(t, err)
	assert.False(t, res.Notified)
	assert.Equal(t, models.JobStatusCompleted, res.Job.Status)
	api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkCompleted_StatusUpdateFailure(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	api.On("UpdateExpressJob", mock.Anything, int64(1), mock.Anything).Return(nil, fmt.Errorf("500"))

	_, err := wf.MarkCompleted(context.Background(), hiredState(9))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOperation))
	api.AssertNotCalled(t, "CreateConversation", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkCompleted_Guards(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)

	_, err := wf.MarkCompleted(context.Background(), hiredState(77))
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	done := hiredState(9)
	done.Job.Status = models.JobStatusCompleted
	_, err = wf.MarkCompleted(context.Background(), done)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	assert.Empty(t, api.Calls)
}

func TestMarkCompleted_AfterPartialHire(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s, app := hireFixture()

	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return(s.Applications, nil).Once()
	api.On("UpdateExpressJobApplication", mock.Anything, app.ID, mock.Anything).
		Return(&models.Application{ID: app.ID, UserID: app.UserID, WorkerID: app.WorkerID, Status: models.ApplicationAccepted}, nil)
	api.On("UpdateExpressJob", mock.Anything, int64(1), statusPatch(models.JobStatusInProgress)).
		Return(nil, fmt.Errorf("502")).Once()

	_, err := wf.Hire(context.Background(), s, app)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrHire))

	// the job stayed abierto but the application is accepted
	half := s
	half.Applications = []models.Application{{ID: app.ID, UserID: app.UserID, WorkerID: app.WorkerID, Status: models.ApplicationAccepted}}
	require.Equal(t, models.JobStatusOpen, half.Job.Status)
	assert.Equal(t, models.JobStatusInProgress, EffectiveStatus(half))
	assert.True(t, CanMarkCompleted(half))

	_, err = wf.Hire(context.Background(), half, app)
	assert.True(t, errors.Is(err, errors.ErrHire), "a second hire is refused")

	api.On("UpdateExpressJob", mock.Anything, int64(1), statusPatch(models.JobStatusCompleted)).
		Return(&models.ExpressJob{ID: 1, Status: models.JobStatusCompleted}, nil)
	api.On("CreateConversation", mock.Anything, half.Job.ClientID, app.UserID).Return(&models.Conversation{ID: 12}, nil)
	api.On("SendMessage", mock.Anything, int64(12), mock.Anything).Return(nil)

	res, err := wf.MarkCompleted(context.Background(), half)

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, res.Job.Status)
	assert.True(t, res.Notified)
}

// ==========================
// SubmitOwnerReview
// ==========================

func TestSubmitOwnerReview(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s := hiredState(9)
	s.Job.Status = models.JobStatusCompleted

	api.On("CreateWorkerReview", mock.Anything, models.WorkerReview{
		WorkerID:     5,
		ClientID:     9,
		ExpressJobID: 1,
		Rating:       4,
		Comment:      "Muy puntual",
	}).Return(&models.WorkerReview{ID: 3, Rating: 4}, nil)

	review, err := wf.SubmitOwnerReview(context.Background(), s, 4, "  Muy puntual ")

	require.NoError(t, err)
	assert.Equal(t, int64(3), review.ID)
	api.AssertExpectations(t)
}

func TestSubmitOwnerReview_Validation(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := wf.SubmitOwnerReview(context.Background(), hiredState(9), rating, "")
		assert.True(t, errors.Is(err, errors.ErrValidation), "rating %d", rating)
	}

	_, err := wf.SubmitOwnerReview(context.Background(), hiredState(50), 5, "")
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	_, err = wf.SubmitOwnerReview(context.Background(), State{Job: openJob(), Actor: Actor{UserID: 9}}, 5, "")
	assert.True(t, errors.Is(err, errors.ErrNotHired))

	assert.Empty(t, api.Calls)
}

func TestSubmitOwnerReview_APIFailure(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	api.On("CreateWorkerReview", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("boom"))

	_, err := wf.SubmitOwnerReview(context.Background(), hiredState(9), 5, "")

	assert.True(t, errors.Is(err, errors.ErrReview))
	assert.Equal(t, "No se pudo enviar tu calificación", errors.AsStandardError(err).Message)
}

// ==========================
// ReportJob
// ==========================

func TestReportJob(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s := State{Job: openJob(), Actor: Actor{UserID: 50}}

	api.On("ReportAd", mock.Anything, models.Report{TargetID: 1, TargetType: "express_job", Reason: "Spam"}).Return(nil).Once()
	require.NoError(t, wf.ReportJob(context.Background(), s, " Spam "))

	api.On("ReportAd", mock.Anything, mock.Anything).Return(fmt.Errorf("offline")).Once()
	assert.NoError(t, wf.ReportJob(context.Background(), s, "El precio no es real"))

	err := wf.ReportJob(context.Background(), s, "   ")
	assert.True(t, errors.Is(err, errors.ErrValidation))
	api.AssertNumberOfCalls(t, "ReportAd", 2)
}

func TestIsListedReason(t *testing.T) {
	assert.True(t, IsListedReason("spam"))
	assert.False(t, IsListedReason("otra cosa"))
}

// ==========================
// Owner edits
// ==========================

func TestDeleteJob(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	api.On("DeleteExpressJob", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, wf.DeleteJob(context.Background(), State{Job: openJob(), Actor: Actor{UserID: 9}}))

	err := wf.DeleteJob(context.Background(), State{Job: openJob(), Actor: Actor{UserID: 50}})
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	err = wf.DeleteJob(context.Background(), hiredState(9))
	assert.True(t, errors.Is(err, errors.ErrValidation))

	api.AssertNumberOfCalls(t, "DeleteExpressJob", 1)
}

func TestUpdateJob(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	s := State{Job: openJob(), Actor: Actor{UserID: 9}}
	title := "Reparar lavadero y tubería"
	patch := models.JobPatch{Title: &title}

	api.On("UpdateExpressJob", mock.Anything, int64(1), patch).Return(&models.ExpressJob{ID: 1, Title: title}, nil)

	job, err := wf.UpdateJob(context.Background(), s, patch)
	require.NoError(t, err)
	assert.Equal(t, title, job.Title)

	_, err = wf.UpdateJob(context.Background(), s, statusPatch(models.JobStatusCompleted))
	assert.True(t, errors.Is(err, errors.ErrValidation))

	low, high := 500.0, 100.0
	_, err = wf.UpdateJob(context.Background(), s, models.JobPatch{BudgetMin: &low, BudgetMax: &high})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	api.AssertNumberOfCalls(t, "UpdateExpressJob", 1)
}

// ==========================
// LoadState
// ==========================

func TestLoadStateByID(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	job := openJob()
	api.On("GetExpressJob", mock.Anything, int64(1)).Return(&job, nil)
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).
		Return([]models.Application{{ID: 70, Status: models.ApplicationSent}}, nil)

	s, err := wf.LoadStateByID(context.Background(), 1, Actor{UserID: 9})

	require.NoError(t, err)
	assert.Equal(t, job, s.Job)
	assert.Len(t, s.Applications, 1)
	assert.True(t, IsOwner(s))
}

func TestLoadState_UnknownStatus(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	job := openJob()
	job.Status = "archivado"

	_, err := wf.LoadState(context.Background(), job, Actor{UserID: 9})

	assert.True(t, errors.Is(err, errors.ErrOperation))
	assert.Empty(t, api.Calls)
}

func TestLoadState_Failure(t *testing.T) {
	wf, api, _, _ := newWorkflow(t)
	api.On("GetExpressJobApplications", mock.Anything, int64(1)).Return(nil, fmt.Errorf("boom"))

	_, err := wf.LoadState(context.Background(), openJob(), Actor{UserID: 9})

	assert.True(t, errors.Is(err, errors.ErrOperation))
}
