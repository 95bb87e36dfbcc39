package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetWorkerProfilesPaged(ctx context.Context, page, pageSize int) (*models.Page[models.WorkerProfile], error) {
	args := m.Called(ctx, page, pageSize)
	if p := args.Get(0); p != nil {
		return p.(*models.Page[models.WorkerProfile]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) CreateWorkerProfile(ctx context.Context, profile models.WorkerProfile) (*models.WorkerProfile, error) {
	args := m.Called(ctx, profile)
	if p := args.Get(0); p != nil {
		return p.(*models.WorkerProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetCandidateProfile(ctx context.Context, userID int64) (*models.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*models.CandidateProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func profilesPage(userIDs ...int64) *models.Page[models.WorkerProfile] {
	page := &models.Page[models.WorkerProfile]{}
	for _, uid := range userIDs {
		page.Items = append(page.Items, models.WorkerProfile{ID: uid * 10, UserID: uid})
	}
	return page
}

func TestScanResolver_FindsOnLaterPage(t *testing.T) {
	api := new(mockAPI)
	api.On("GetWorkerProfilesPaged", mock.Anything, 1, 2).Return(profilesPage(1, 2), nil).Once()
	api.On("GetWorkerProfilesPaged", mock.Anything, 2, 2).Return(profilesPage(3, 7), nil).Once()

	r := NewScanResolver(api, ScanOptions{PageSize: 2})
	id, err := r.Resolve(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(70), id)
	api.AssertExpectations(t)
}

func TestScanResolver_StopsOnShortPage(t *testing.T) {
	api := new(mockAPI)
	api.On("GetWorkerProfilesPaged", mock.Anything, 1, 2).Return(profilesPage(1, 2), nil).Once()
	api.On("GetWorkerProfilesPaged", mock.Anything, 2, 2).Return(profilesPage(3), nil).Once()

	r := NewScanResolver(api, ScanOptions{PageSize: 2})
	id, err := r.Resolve(context.Background(), 99)

	require.NoError(t, err)
	assert.Zero(t, id)
	api.AssertExpectations(t)
}

func TestScanResolver_RespectsLimit(t *testing.T) {
	api := new(mockAPI)
	api.On("GetWorkerProfilesPaged", mock.Anything, mock.Anything, 2).Return(profilesPage(1, 2), nil)

	r := NewScanResolver(api, ScanOptions{PageSize: 2, Limit: 6})
	id, err := r.Resolve(context.Background(), 99)

	require.NoError(t, err)
	assert.Zero(t, id)
	api.AssertNumberOfCalls(t, "GetWorkerProfilesPaged", 3)
}

func TestScanResolver_PropagatesError(t *testing.T) {
	api := new(mockAPI)
	api.On("GetWorkerProfilesPaged", mock.Anything, 1, DefaultScanPageSize).Return(nil, fmt.Errorf("boom"))

	_, err := NewScanResolver(api, ScanOptions{}).Resolve(context.Background(), 5)
	assert.ErrorContains(t, err, "boom")
}

func TestBootstrap_EnsureExists_ExistingProfileIssuesNoCreate(t *testing.T) {
	api := new(mockAPI)
	resolver := ResolverFunc(func(ctx context.Context, userID int64) (int64, error) {
		return 42, nil
	})

	b := NewBootstrap(api, resolver, logger.NewTestLogger(t))
	id, err := b.EnsureExists(context.Background(), 5, &models.ExpressJob{ID: 1})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	api.AssertNotCalled(t, "CreateWorkerProfile", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "GetCandidateProfile", mock.Anything, mock.Anything)
}

func TestBootstrap_EnsureExists_CreatesWithDefaults(t *testing.T) {
	api := new(mockAPI)
	api.On("GetWorkerProfilesPaged", mock.Anything, 1, DefaultScanPageSize).Return(profilesPage(1), nil)
	api.On("GetCandidateProfile", mock.Anything, int64(5)).Return(nil, nil)
	api.On("CreateWorkerProfile", mock.Anything, models.WorkerProfile{
		UserID:          5,
		TradeCategoryID: DefaultTradeCategoryID,
		Specialty:       DefaultSpecialty,
		PhoneNumber:     DefaultPhoneNumber,
		Available:       true,
		Currency:        DefaultCurrency,
	}).Return(&models.WorkerProfile{ID: 77, UserID: 5}, nil)

	b := NewBootstrap(api, nil, logger.NewTestLogger(t))
	id, err := b.EnsureExists(context.Background(), 5, &models.ExpressJob{ID: 1})

	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	api.AssertExpectations(t)
}

func TestBootstrap_EnsureExists_CandidateErrorTolerated(t *testing.T) {
	api := new(mockAPI)
	api.On("GetCandidateProfile", mock.Anything, int64(5)).Return(nil, fmt.Errorf("timeout"))
	api.On("CreateWorkerProfile", mock.Anything, mock.AnythingOfType("models.WorkerProfile")).
		Return(&models.WorkerProfile{ID: 8}, nil)

	b := NewBootstrap(api, ResolverFunc(func(context.Context, int64) (int64, error) { return 0, nil }), nil)
	id, err := b.EnsureExists(context.Background(), 5, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}

func TestBootstrap_EnsureExists_CreateFailure(t *testing.T) {
	api := new(mockAPI)
	api.On("GetCandidateProfile", mock.Anything, int64(5)).Return(nil, nil)
	api.On("CreateWorkerProfile", mock.Anything, mock.Anything).
		Return(nil, &outy.APIError{Status: 400, Message: "Teléfono inválido"}).Once()

	b := NewBootstrap(api, ResolverFunc(func(context.Context, int64) (int64, error) { return 0, nil }), nil)
	_, err := b.EnsureExists(context.Background(), 5, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrProfileBootstrap))
	assert.Equal(t, "Teléfono inválido", errors.AsStandardError(err).Message)
	api.AssertNumberOfCalls(t, "CreateWorkerProfile", 1)
}

func TestBootstrap_EnsureExists_ResolveFailureDoesNotCreate(t *testing.T) {
	api := new(mockAPI)
	b := NewBootstrap(api, ResolverFunc(func(context.Context, int64) (int64, error) {
		return 0, fmt.Errorf("scan failed")
	}), nil)

	_, err := b.EnsureExists(context.Background(), 5, nil)

	assert.True(t, errors.Is(err, errors.ErrProfileBootstrap))
	api.AssertNotCalled(t, "CreateWorkerProfile", mock.Anything, mock.Anything)
}

func TestBootstrap_EnsureExists_MissingUser(t *testing.T) {
	b := NewBootstrap(new(mockAPI), nil, nil)
	_, err := b.EnsureExists(context.Background(), 0, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestNewProfilePayload(t *testing.T) {
	job := &models.ExpressJob{TradeCategoryID: 4, LocationID: 12}
	candidate := &models.CandidateProfile{
		FirstName:   "Ana",
		LastName:    "López",
		Profession:  "Electricista",
		PhoneNumber: "88887777",
	}

	p := NewProfilePayload(5, job, candidate)

	assert.Equal(t, models.WorkerProfile{
		UserID:          5,
		FullName:        "Ana López",
		TradeCategoryID: 4,
		Specialty:       "Electricista",
		PhoneNumber:     "88887777",
		LocationID:      12,
		Available:       true,
		Currency:        "NIO",
	}, p)
}
