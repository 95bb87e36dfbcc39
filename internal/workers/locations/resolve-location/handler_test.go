// internal/workers/locations/resolve-location/handler_test.go
package resolvelocation

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/locations"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
	"outy-workers/internal/outy/outytest"
	"outy-workers/internal/session"
	"outy-workers/internal/workers/scope"
)

func entries() []models.LocationEntry {
	return []models.LocationEntry{
		{Department: "Managua", Municipality: "Tipitapa"},
		{Department: "Managua", Municipality: "Ticuantepe"},
		{Department: "Managua", Municipality: "Managua"},
		{Department: "León", Municipality: "León"},
		{Department: "León", Municipality: "Nagarote"},
	}
}

func newHandler(t *testing.T, deps *scope.Deps) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second, DefaultLimit: 20}, deps, logger.NewTestLogger(t))
}

func TestHandler_Execute_SuggestsWithinDepartment(t *testing.T) {
	handler := newHandler(t, &scope.Deps{Catalog: locations.FromEntries(entries())})

	output, err := handler.Execute(context.Background(), &Input{Department: "managua", Municipality: "ti"})

	require.NoError(t, err)
	assert.Equal(t, "Managua", output.Department)
	assert.False(t, output.DepartmentInferred)
	assert.Equal(t, []string{"Ticuantepe", "Tipitapa"}, output.Suggestions)
	assert.Equal(t, []string{"Managua", "Ticuantepe", "Tipitapa"}, output.Cities)
	assert.Equal(t, []string{"León", "Managua"}, output.Departments)
	assert.False(t, output.Valid)
}

func TestHandler_Execute_InfersDepartment(t *testing.T) {
	handler := newHandler(t, &scope.Deps{Catalog: locations.FromEntries(entries())})

	output, err := handler.Execute(context.Background(), &Input{Municipality: "NAGAROTE"})

	require.NoError(t, err)
	assert.Equal(t, "León", output.Department)
	assert.True(t, output.DepartmentInferred)
	assert.True(t, output.Valid)
	assert.Equal(t, []string{"Nagarote"}, output.Suggestions)
}

func TestHandler_Execute_UnknownCity(t *testing.T) {
	handler := newHandler(t, &scope.Deps{Catalog: locations.FromEntries(entries())})

	output, err := handler.Execute(context.Background(), &Input{Municipality: "Granada"})

	require.NoError(t, err)
	assert.Empty(t, output.Department)
	assert.Empty(t, output.Suggestions)
	assert.Empty(t, output.Cities)
	assert.Len(t, output.Departments, 2)
}

func TestHandler_Execute_LimitCapsSuggestions(t *testing.T) {
	handler := newHandler(t, &scope.Deps{Catalog: locations.FromEntries(entries())})

	output, err := handler.Execute(context.Background(), &Input{Department: "Managua", Limit: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"Managua"}, output.Suggestions)
}

func TestHandler_Execute_WarmsCatalogOnce(t *testing.T) {
	srv := outytest.NewServer(t)
	srv.AddLocations(entries()...)
	store := session.NewMemoryStore()
	deps := &scope.Deps{
		API:    outy.NewClient(outy.Options{BaseURL: srv.URL}),
		Store:  store,
		Logger: logger.NewTestLogger(t),
	}
	handler := newHandler(t, deps)

	for i := 0; i < 2; i++ {
		output, err := handler.Execute(context.Background(), &Input{Department: "León"})
		require.NoError(t, err)
		assert.Equal(t, []string{"León", "Nagarote"}, output.Cities)
	}
	assert.Equal(t, 1, srv.Count("GET /locations/nicaragua"))

	_, ok, err := session.LoadCatalog(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHandler_Execute_CatalogUnavailable(t *testing.T) {
	srv := outytest.NewServer(t)
	srv.Fail("GET /locations/nicaragua", http.StatusServiceUnavailable, "mantenimiento")
	handler := newHandler(t, &scope.Deps{API: outy.NewClient(outy.Options{BaseURL: srv.URL})})

	_, err := handler.Execute(context.Background(), &Input{Department: "León"})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCatalogFailed, errors.AsStandardError(err).Code)
}
