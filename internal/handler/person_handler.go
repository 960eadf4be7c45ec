package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-data-api/internal/service"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
	"github.com/noah-isme/school-data-api/pkg/response"
)

// PersonHandler exposes person endpoints.
type PersonHandler struct {
	svc *service.DataService
}

// NewPersonHandler constructs PersonHandler.
func NewPersonHandler(svc *service.DataService) *PersonHandler {
	return &PersonHandler{svc: svc}
}

// Create godoc
// @Summary Create person
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body service.CreatePersonRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Router /persons [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var req service.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err))
		return
	}
	person, err := h.svc.CreatePerson(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "person created", person)
}

// Get godoc
// @Summary Get person
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.svc.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "person retrieved", person)
}

// Update godoc
// @Summary Update person
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body service.UpdatePersonRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req service.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err))
		return
	}
	person, err := h.svc.UpdatePerson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "person updated", person)
}

// Delete godoc
// @Summary Delete person
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "person deleted", nil)
}
