package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademiklabs/inspection-api/internal/service"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
	"github.com/akademiklabs/inspection-api/pkg/response"
)

// TeamHandler handles inspection team endpoints.
type TeamHandler struct {
	service *service.TeamService
}

// NewTeamHandler constructs a team handler.
func NewTeamHandler(svc *service.TeamService) *TeamHandler {
	return &TeamHandler{service: svc}
}

// List godoc
// @Summary List inspection teams with rosters
// @Tags Teams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// Get godoc
// @Summary Get inspection team by id
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// Create godoc
// @Summary Create inspection team
// @Tags Teams
// @Accept json
// @Produce json
// @Param payload body service.CreateTeamRequest true "Team payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req service.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	team, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// AddMember godoc
// @Summary Add a teacher to an inspection team
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Param teacherId path string true "Teacher ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teams/{id}/members/{teacherId} [put]
func (h *TeamHandler) AddMember(c *gin.Context) {
	if err := h.service.AddMember(c.Request.Context(), c.Param("id"), c.Param("teacherId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveMember godoc
// @Summary Remove a teacher from an inspection team
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Param teacherId path string true "Teacher ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /teams/{id}/members/{teacherId} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	if err := h.service.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("teacherId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
