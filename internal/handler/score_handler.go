package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-data-api/internal/service"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
	"github.com/noah-isme/school-data-api/pkg/response"
)

// ScoreHandler exposes assessment score ingestion.
type ScoreHandler struct {
	svc *service.DataService
}

// NewScoreHandler constructs ScoreHandler.
func NewScoreHandler(svc *service.DataService) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

// Add godoc
// @Summary Record assessment scores
// @Tags Scores
// @Accept json
// @Produce json
// @Param payload body service.AddScoresRequest true "Score batch"
// @Success 200 {object} response.Envelope
// @Router /scores [post]
func (h *ScoreHandler) Add(c *gin.Context) {
	var req service.AddScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err))
		return
	}
	result, err := h.svc.AddScores(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Bulk(c, http.StatusOK, "scores processed", result)
}
