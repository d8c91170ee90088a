package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademiklabs/inspection-api/internal/service"
	"github.com/akademiklabs/inspection-api/pkg/response"
)

// EligibilityHandler handles eligible-team lookups.
type EligibilityHandler struct {
	service *service.EligibilityService
}

// NewEligibilityHandler constructs an eligibility handler.
func NewEligibilityHandler(svc *service.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{service: svc}
}

// EligibleTeams godoc
// @Summary List teams eligible to inspect a lesson
// @Tags Eligibility
// @Produce json
// @Param teacherId path string true "Inspected teacher ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{teacherId}/lessons/{lessonId}/eligible-teams [get]
func (h *EligibilityHandler) EligibleTeams(c *gin.Context) {
	teams, err := h.service.GetEligibleTeams(c.Request.Context(), c.Param("teacherId"), c.Param("lessonId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}
