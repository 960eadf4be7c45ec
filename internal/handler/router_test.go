package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/service"
	"github.com/noah-isme/school-data-api/internal/store/memstore"
	"github.com/noah-isme/school-data-api/pkg/config"
	"github.com/noah-isme/school-data-api/pkg/response"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:   config.EnvDevelopment,
		Store: config.StoreConfig{Backend: "memory"},
	}
	svc := service.New(memstore.New(), nil, zap.NewNop())
	return NewRouter(cfg, zap.NewNop(), svc)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope response.Envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func createEntity(t *testing.T, router *gin.Engine, path string, body interface{}) string {
	t.Helper()
	w, envelope := doJSON(t, router, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)
	return id
}

func TestPersonLifecycle(t *testing.T) {
	router := newTestRouter(t)

	id := createEntity(t, router, "/api/v1/persons", gin.H{
		"first_name": "Ana",
		"last_name":  "Souza",
		"email":      "Ana.Souza@Example.COM",
	})

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/persons/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, envelope.Success)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "ana.souza@example.com", data["email"])

	w, envelope = doJSON(t, router, http.MethodPut, "/api/v1/persons/"+id, gin.H{
		"first_name": "Anabel",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = envelope.Data.(map[string]interface{})
	assert.Equal(t, "Anabel", data["first_name"])
	assert.Equal(t, "ana.souza@example.com", data["email"])

	w, _ = doJSON(t, router, http.MethodDelete, "/api/v1/persons/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope = doJSON(t, router, http.MethodGet, "/api/v1/persons/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Errors)
}

func TestCreatePersonRejectsBadPayload(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/persons", gin.H{
		"first_name": "Ana",
		"last_name":  "Souza",
		"email":      "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Success)

	req, err := http.NewRequest(http.MethodPost, "/api/v1/persons", strings.NewReader("{broken"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	require.Equal(t, http.StatusBadRequest, w2.Code)
}

func TestDuplicateEmailConflicts(t *testing.T) {
	router := newTestRouter(t)

	createEntity(t, router, "/api/v1/students", gin.H{
		"first_name": "Bruno",
		"last_name":  "Lima",
		"email":      "bruno@example.com",
	})
	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/students", gin.H{
		"first_name": "Other",
		"last_name":  "Bruno",
		"email":      "bruno@example.com",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, envelope.Success)
}

func TestEnrollStudentsReportsPartialFailure(t *testing.T) {
	router := newTestRouter(t)

	classID := createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Class 9A",
		"academic_year": "2026",
	})
	studentID := createEntity(t, router, "/api/v1/students", gin.H{
		"first_name": "Carla",
		"last_name":  "Dias",
		"email":      "carla@example.com",
	})

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/classes/"+classID+"/students", gin.H{
		"student_ids": []string{studentID, "missing-student"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.TotalProcessed)
	assert.Equal(t, 2, *envelope.TotalProcessed)
	assert.Equal(t, 1, *envelope.Successful)
	assert.Equal(t, 1, *envelope.Failed)
	require.Len(t, envelope.Errors, 1)
	assert.Contains(t, envelope.Errors[0], "missing-student")
}

func TestAssignTeacherValidatesSubject(t *testing.T) {
	router := newTestRouter(t)

	classID := createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Class 9B",
		"academic_year": "2026",
	})
	teacherID := createEntity(t, router, "/api/v1/teachers", gin.H{
		"first_name": "Diego",
		"last_name":  "Reis",
		"email":      "diego@example.com",
	})

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/classes/"+classID+"/teacher", gin.H{
		"teacher_id": teacherID,
		"subject":    "alchemy",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/classes/"+classID+"/teacher", gin.H{
		"teacher_id": teacherID,
		"subject":    "mathematics",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, envelope.Success)
}

func TestBulkEndpointCreatesStudents(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/bulk", gin.H{
		"entity_type":    "student",
		"operation_type": "create",
		"data": []gin.H{
			{"first_name": "Eva", "last_name": "Melo", "email": "eva@example.com"},
			{"first_name": "", "last_name": "Melo", "email": "bad@example.com"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, envelope.TotalProcessed)
	assert.Equal(t, 2, *envelope.TotalProcessed)
	assert.Equal(t, 1, *envelope.Successful)
	assert.Equal(t, 1, *envelope.Failed)
}

func TestBreakdownAndAggregateEndpoints(t *testing.T) {
	router := newTestRouter(t)

	classID := createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Class 9C",
		"academic_year": "2026",
	})
	studentID := createEntity(t, router, "/api/v1/students", gin.H{
		"first_name": "Gabi",
		"last_name":  "Nunes",
		"email":      "gabi@example.com",
	})
	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/classes/"+classID+"/students", gin.H{
		"student_ids": []string{studentID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/analytics/students-per-class?class_id="+classID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, envelope.Count)
	assert.Equal(t, 1, *envelope.Count)
	data := envelope.Data.(map[string]interface{})
	results := data["results"].([]interface{})
	require.Len(t, results, 1)
	row := results[0].(map[string]interface{})
	assert.Equal(t, "Class 9C", row["class_name"])
	assert.Equal(t, float64(1), row["student_count"])

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/analytics/not-a-breakdown", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, envelope = doJSON(t, router, http.MethodPost, "/api/v1/aggregates", gin.H{
		"query_type": "enrollments",
		"group_by":   []string{"class_id"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, envelope.Count)
	assert.Equal(t, 1, *envelope.Count)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/aggregates", gin.H{
		"query_type": "students",
		"group_by":   []string{"password"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAverageScoreBreakdownComputesMean(t *testing.T) {
	router := newTestRouter(t)

	classID := createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Class 9E",
		"academic_year": "2026",
	})
	studentID := createEntity(t, router, "/api/v1/students", gin.H{
		"first_name": "Hugo",
		"last_name":  "Pires",
		"email":      "hugo@example.com",
	})

	scores := make([]gin.H, 0, 3)
	for _, value := range []float64{85, 90, 95} {
		scores = append(scores, gin.H{
			"student_id":      studentID,
			"class_id":        classID,
			"subject":         "mathematics",
			"score":           value,
			"assessment_type": "exam",
		})
	}
	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/scores", gin.H{"scores": scores})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, envelope.Successful)
	require.Equal(t, 3, *envelope.Successful)

	w, envelope = doJSON(t, router, http.MethodGet, "/api/v1/analytics/average-score-per-class?class_id="+classID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := envelope.Data.(map[string]interface{})
	results := data["results"].([]interface{})
	require.Len(t, results, 1)
	row := results[0].(map[string]interface{})
	assert.Equal(t, float64(90), row["average_score"])
	assert.Equal(t, float64(3), row["total_scores"])
}

func TestReEnrollSamePairIsHandledDuplicate(t *testing.T) {
	router := newTestRouter(t)

	classID := createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Class 9F",
		"academic_year": "2026",
	})
	studentID := createEntity(t, router, "/api/v1/students", gin.H{
		"first_name": "Iris",
		"last_name":  "Rocha",
		"email":      "iris@example.com",
	})

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/classes/"+classID+"/students", gin.H{
		"student_ids": []string{studentID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, *envelope.Successful)

	w, envelope = doJSON(t, router, http.MethodPost, "/api/v1/classes/"+classID+"/students", gin.H{
		"student_ids": []string{studentID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, 1, *envelope.TotalProcessed)
	assert.Equal(t, 0, *envelope.Successful)
	assert.Equal(t, 1, *envelope.Failed)
	require.Len(t, envelope.Errors, 1)
	assert.Contains(t, envelope.Errors[0], "already enrolled")
}

func TestStudentsPerClassCoversAllClasses(t *testing.T) {
	router := newTestRouter(t)

	alphaID := createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Alpha",
		"academic_year": "2026",
	})
	betaID := createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Beta",
		"academic_year": "2026",
	})

	var alphaStudents []string
	for i, email := range []string{"jo@example.com", "ka@example.com"} {
		alphaStudents = append(alphaStudents, createEntity(t, router, "/api/v1/students", gin.H{
			"first_name": fmt.Sprintf("Kid%d", i),
			"last_name":  "Alpha",
			"email":      email,
		}))
	}
	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/classes/"+alphaID+"/students", gin.H{
		"student_ids": alphaStudents,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/analytics/students-per-class", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, envelope.Count)
	assert.Equal(t, 2, *envelope.Count)

	data := envelope.Data.(map[string]interface{})
	results := data["results"].([]interface{})
	require.Len(t, results, 2)
	counts := map[string]float64{}
	for _, r := range results {
		row := r.(map[string]interface{})
		counts[row["class_id"].(string)] = row["student_count"].(float64)
	}
	assert.Equal(t, float64(2), counts[alphaID])
	assert.Equal(t, float64(0), counts[betaID])
}

func TestExportBreakdown(t *testing.T) {
	router := newTestRouter(t)

	createEntity(t, router, "/api/v1/classes", gin.H{
		"name":          "Class 9D",
		"academic_year": "2026",
	})

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/analytics/students-per-class/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "students-per-class")
	assert.Contains(t, w.Body.String(), "Class 9D")

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/analytics/students-per-class/export?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/analytics/students-per-class/export?format=xml", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memory")
}
