package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademiklabs/inspection-api/internal/service"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
	"github.com/akademiklabs/inspection-api/pkg/response"
)

// InspectionHandler handles inspection assignment endpoints.
type InspectionHandler struct {
	service *service.InspectionService
	reports *service.ReportService
}

// NewInspectionHandler constructs an inspection handler.
func NewInspectionHandler(svc *service.InspectionService, reports *service.ReportService) *InspectionHandler {
	return &InspectionHandler{service: svc, reports: reports}
}

// List godoc
// @Summary List inspection assignments
// @Tags Inspections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inspections [get]
func (h *InspectionHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get inspection detail
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inspections/{id} [get]
func (h *InspectionHandler) Get(c *gin.Context) {
	detail, err := h.reports.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create inspection assignment
// @Tags Inspections
// @Accept json
// @Produce json
// @Param payload body service.CreateInspectionRequest true "Inspection payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /inspections [post]
func (h *InspectionHandler) Create(c *gin.Context) {
	var req service.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	inspection, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inspection)
}

// Update godoc
// @Summary Update inspection team or lesson references
// @Tags Inspections
// @Accept json
// @Produce json
// @Param id path string true "Inspection ID"
// @Param payload body service.EditInspectionRequest true "Partial inspection payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /inspections/{id} [patch]
func (h *InspectionHandler) Update(c *gin.Context) {
	var req service.EditInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	inspection, err := h.service.Edit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inspection, nil)
}

// Delete godoc
// @Summary Delete inspection assignment
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /inspections/{id} [delete]
func (h *InspectionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
