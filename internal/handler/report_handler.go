package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademiklabs/inspection-api/internal/models"
	"github.com/akademiklabs/inspection-api/internal/service"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
	"github.com/akademiklabs/inspection-api/pkg/response"
)

// ReportHandler handles inspection report endpoints.
type ReportHandler struct {
	service *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{service: svc, exports: exports}
}

// Get godoc
// @Summary Get the report of an inspection
// @Tags Reports
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inspections/{id}/report [get]
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Create godoc
// @Summary Attach a report to an inspection
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Inspection ID"
// @Param payload body service.CreateReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /inspections/{id}/report [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.service.Attach(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Update godoc
// @Summary Edit the report of an inspection
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Inspection ID"
// @Param payload body models.ReportPatch true "Partial report payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inspections/{id}/report [patch]
func (h *ReportHandler) Update(c *gin.Context) {
	var patch models.ReportPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.service.Edit(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ExportPDF godoc
// @Summary Download the inspection report as PDF
// @Tags Reports
// @Produce application/pdf
// @Param id path string true "Inspection ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /inspections/{id}/report/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	payload, filename, err := h.exports.ReportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
