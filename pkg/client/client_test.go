package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/handler"
	"github.com/noah-isme/school-data-api/internal/service"
	"github.com/noah-isme/school-data-api/internal/store/memstore"
	"github.com/noah-isme/school-data-api/pkg/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:   config.EnvDevelopment,
		Store: config.StoreConfig{Backend: "memory"},
	}
	svc := service.New(memstore.New(), nil, zap.NewNop())
	srv := httptest.NewServer(handler.NewRouter(cfg, zap.NewNop(), svc))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	student, err := c.CreateStudent(ctx, map[string]interface{}{
		"first_name": "Lia",
		"last_name":  "Prado",
		"email":      "lia@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, student.ID)
	assert.True(t, student.IsActive)

	fetched, err := c.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "lia@example.com", fetched.Email)

	class, err := c.CreateClass(ctx, map[string]interface{}{
		"name":          "Class 10A",
		"academic_year": "2026",
	})
	require.NoError(t, err)

	result, err := c.EnrollStudents(ctx, class.ID, []string{student.ID, "nope"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)

	breakdown, err := c.Breakdown(ctx, "students-per-class", class.ID)
	require.NoError(t, err)
	require.Len(t, breakdown.Results, 1)
	assert.Equal(t, "Class 10A", breakdown.Results[0]["class_name"])

	require.NoError(t, c.DeleteStudent(ctx, student.ID))
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.GetPerson(ctx, "missing")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.Status)
	assert.NotEmpty(t, apiErr.Errors)

	_, err = c.CreateTeacher(ctx, map[string]interface{}{
		"first_name": "No",
		"last_name":  "Email",
		"email":      "broken",
	})
	require.Error(t, err)
	apiErr, ok = err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Status)
}
