// internal/workers/profile/ensure-worker-profile/handler_test.go
package ensureworkerprofile

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
	"outy-workers/internal/outy/outytest"
	"outy-workers/internal/session"
	"outy-workers/internal/workers/scope"
	"outy-workers/internal/workflow/profile"
)

const userID = int64(42)

func newHandler(t *testing.T, srv *outytest.Server, store session.Store) *Handler {
	log := logger.NewTestLogger(t)
	deps := &scope.Deps{
		API:   outy.NewClient(outy.Options{BaseURL: srv.URL, Logger: log}),
		Store: store,
		// small pages so the scan crosses a page boundary
		Scan:   profile.ScanOptions{PageSize: 2},
		Logger: log,
	}
	return NewHandler(&Config{Timeout: 5 * time.Second}, deps, log)
}

func TestHandler_Execute_ExistingProfile(t *testing.T) {
	srv := outytest.NewServer(t)
	srv.AddProfile(models.WorkerProfile{ID: 1, UserID: 7})
	srv.AddProfile(models.WorkerProfile{ID: 2, UserID: 8})
	srv.AddProfile(models.WorkerProfile{ID: 3, UserID: userID})
	store := session.NewMemoryStore()
	handler := newHandler(t, srv, store)

	output, err := handler.Execute(context.Background(), &Input{AuthToken: outytest.Token(userID)})

	require.NoError(t, err)
	assert.Equal(t, int64(3), output.WorkerProfileID)
	assert.False(t, output.Created)
	assert.Equal(t, 2, srv.Count("GET /worker-profiles"))
	assert.Zero(t, srv.Count("POST /worker-profiles"))

	// the positive lookup is cached for the next job
	_, err = handler.Execute(context.Background(), &Input{AuthToken: outytest.Token(userID)})
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Count("GET /worker-profiles"))
}

func TestHandler_Execute_CreatesFromJobAndCandidate(t *testing.T) {
	srv := outytest.NewServer(t)
	srv.AddJob(models.ExpressJob{ID: 10, ClientID: 1, Status: models.JobStatusOpen, TradeCategoryID: 4, LocationID: 7})
	srv.AddCandidate(models.CandidateProfile{UserID: userID, FirstName: "Luis", LastName: "Mora", Profession: "Electricista", PhoneNumber: "88887777"})
	handler := newHandler(t, srv, session.NewMemoryStore())

	output, err := handler.Execute(context.Background(), &Input{AuthToken: outytest.Token(userID), ExpressJobID: 10})

	require.NoError(t, err)
	assert.True(t, output.Created)

	profiles := srv.Profiles()
	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, output.WorkerProfileID, p.ID)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "Luis Mora", p.FullName)
	assert.Equal(t, int64(4), p.TradeCategoryID)
	assert.Equal(t, int64(7), p.LocationID)
	assert.Equal(t, "Electricista", p.Specialty)
	assert.Equal(t, "88887777", p.PhoneNumber)
}

func TestHandler_Execute_CreateRejected(t *testing.T) {
	srv := outytest.NewServer(t)
	srv.Fail("POST /worker-profiles", http.StatusUnprocessableEntity, "Teléfono inválido")
	handler := newHandler(t, srv, session.NewMemoryStore())

	_, err := handler.Execute(context.Background(), &Input{AuthToken: outytest.Token(userID)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrProfileBootstrap))
	assert.Equal(t, "Teléfono inválido", errors.AsStandardError(err).Message)
}
