package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akademiklabs/inspection-api/internal/service"
	"github.com/akademiklabs/inspection-api/pkg/response"
)

// ScheduleHandler handles schedule and lesson lookup endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
	exports *service.ExportService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService, exports *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exports: exports}
}

// Semesters godoc
// @Summary List semesters with inspection schedules
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *ScheduleHandler) Semesters(c *gin.Context) {
	semesters, err := h.service.Semesters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semesters, nil)
}

// Schedule godoc
// @Summary Get the inspection schedule for a semester
// @Tags Schedules
// @Produce json
// @Param semester path string true "Semester, e.g. 2025-winter"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semester}/schedule [get]
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	entries, err := h.service.Schedule(c.Request.Context(), c.Param("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ScheduleCSV godoc
// @Summary Download the semester inspection schedule as CSV
// @Tags Schedules
// @Produce text/csv
// @Param semester path string true "Semester"
// @Success 200 {file} binary
// @Router /semesters/{semester}/schedule/csv [get]
func (h *ScheduleHandler) ScheduleCSV(c *gin.Context) {
	payload, filename, err := h.exports.ScheduleCSV(c.Request.Context(), c.Param("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// Lessons godoc
// @Summary List lessons in a semester
// @Tags Schedules
// @Produce json
// @Param semester path string true "Semester"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semester}/lessons [get]
func (h *ScheduleHandler) Lessons(c *gin.Context) {
	lessons, err := h.service.LessonsBySemester(c.Request.Context(), c.Param("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// TeacherSubjects godoc
// @Summary List subjects a teacher gives lessons for
// @Tags Schedules
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/subjects [get]
func (h *ScheduleHandler) TeacherSubjects(c *gin.Context) {
	subjects, err := h.service.SubjectsByTeacher(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// TeacherSubjectLessons godoc
// @Summary List the lessons a teacher gives for a subject
// @Tags Schedules
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{teacherId}/subjects/{subjectId}/lessons [get]
func (h *ScheduleHandler) TeacherSubjectLessons(c *gin.Context) {
	lessons, err := h.service.LessonsByTeacherAndSubject(c.Request.Context(), c.Param("teacherId"), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}
