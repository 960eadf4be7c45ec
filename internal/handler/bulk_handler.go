package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-data-api/internal/service"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
	"github.com/noah-isme/school-data-api/pkg/response"
)

// BulkHandler exposes batched mutations.
type BulkHandler struct {
	svc *service.DataService
}

// NewBulkHandler constructs BulkHandler.
func NewBulkHandler(svc *service.DataService) *BulkHandler {
	return &BulkHandler{svc: svc}
}

// Execute godoc
// @Summary Run a bulk operation
// @Tags Bulk
// @Accept json
// @Produce json
// @Param payload body service.BulkRequest true "Bulk descriptor"
// @Success 200 {object} response.Envelope
// @Router /bulk [post]
func (h *BulkHandler) Execute(c *gin.Context) {
	var req service.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err))
		return
	}
	result, err := h.svc.Bulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Bulk(c, http.StatusOK, "bulk operation processed", result)
}
