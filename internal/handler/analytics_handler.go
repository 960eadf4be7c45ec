package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-data-api/internal/service"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
	"github.com/noah-isme/school-data-api/pkg/export"
	"github.com/noah-isme/school-data-api/pkg/response"
)

// breakdownColumns fixes the export column order per breakdown.
var breakdownColumns = map[string][]string{
	service.BreakdownStudents: {"class_id", "class_name", "student_count"},
	service.BreakdownScores:   {"class_id", "class_name", "average_score", "total_scores"},
	service.BreakdownTeachers: {"class_id", "class_name", "teacher_count"},
	service.BreakdownSubjects: {"class_id", "class_name", "subjects", "subject_count"},
}

// AnalyticsHandler exposes aggregate queries and exports.
type AnalyticsHandler struct {
	svc *service.DataService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(svc *service.DataService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Breakdown godoc
// @Summary Run a canonical per-class breakdown
// @Tags Analytics
// @Produce json
// @Param name path string true "Breakdown name" Enums(students-per-class, average-score-per-class, teachers-per-class, subjects-per-class)
// @Param class_id query string false "Scope to one class"
// @Success 200 {object} response.Envelope
// @Router /analytics/{name} [get]
func (h *AnalyticsHandler) Breakdown(c *gin.Context) {
	result, err := h.svc.Breakdown(c.Request.Context(), c.Param("name"), c.Query("class_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Aggregate(c, http.StatusOK, "aggregation complete", result)
}

// Query godoc
// @Summary Run a generic aggregate query
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body service.AggregateRequest true "Aggregate descriptor"
// @Success 200 {object} response.Envelope
// @Router /aggregates [post]
func (h *AnalyticsHandler) Query(c *gin.Context) {
	var req service.AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err))
		return
	}
	result, err := h.svc.Aggregate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Aggregate(c, http.StatusOK, "aggregation complete", result)
}

// Export godoc
// @Summary Export a breakdown as CSV or PDF
// @Tags Analytics
// @Produce octet-stream
// @Param name path string true "Breakdown name"
// @Param format query string true "Export format" Enums(csv, pdf)
// @Param class_id query string false "Scope to one class"
// @Success 200 {file} file
// @Router /analytics/{name}/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	name := c.Param("name")
	headers, ok := breakdownColumns[name]
	if !ok {
		response.Error(c, appErrors.Validation(fmt.Errorf("unknown breakdown %q", name)))
		return
	}

	result, err := h.svc.Breakdown(c.Request.Context(), name, c.Query("class_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	data := export.FromAggregate(result, headers)

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := export.RenderCSV(data)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", name))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := export.RenderPDF(data, name)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.pdf\"", name))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Validation(fmt.Errorf("format must be csv or pdf")))
	}
}
