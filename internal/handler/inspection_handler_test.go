package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/dto"
	"github.com/akademiklabs/inspection-api/internal/models"
	"github.com/akademiklabs/inspection-api/internal/service"
)

type inspectionRepoStub struct {
	items map[string]*models.Inspection
}

func (s *inspectionRepoStub) FindByID(ctx context.Context, id string) (*models.Inspection, error) {
	if inspection, ok := s.items[id]; ok {
		cp := *inspection
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *inspectionRepoStub) Create(ctx context.Context, inspection *models.Inspection) error {
	if s.items == nil {
		s.items = make(map[string]*models.Inspection)
	}
	if inspection.ID == "" {
		inspection.ID = "generated"
	}
	cp := *inspection
	s.items[inspection.ID] = &cp
	return nil
}

func (s *inspectionRepoStub) UpdateRefs(ctx context.Context, inspection *models.Inspection, recheckLesson bool) error {
	cp := *inspection
	s.items[inspection.ID] = &cp
	return nil
}

func (s *inspectionRepoStub) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *inspectionRepoStub) List(ctx context.Context) ([]dto.InspectionListItem, error) {
	return nil, nil
}

type scheduleRepoStub struct{}

func (scheduleRepoStub) FindByID(ctx context.Context, id string) (*models.InspectionSchedule, error) {
	if id == "sched-1" {
		return &models.InspectionSchedule{ID: "sched-1"}, nil
	}
	return nil, sql.ErrNoRows
}

type lessonRepoStub struct{}

func (lessonRepoStub) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	if id == "lesson-1" {
		return &models.Lesson{ID: "lesson-1", TimeSlot: "mon-08:00"}, nil
	}
	return nil, sql.ErrNoRows
}

type reportReaderStub struct{}

func (reportReaderStub) FindByID(ctx context.Context, id string) (*models.InspectionReport, error) {
	return nil, sql.ErrNoRows
}

func newInspectionHandler(repo *inspectionRepoStub) *InspectionHandler {
	svc := service.NewInspectionService(repo, scheduleRepoStub{}, lessonRepoStub{}, reportReaderStub{}, nil, validator.New(), zap.NewNop())
	return NewInspectionHandler(svc, nil)
}

func TestInspectionHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &inspectionRepoStub{items: map[string]*models.Inspection{}}
	handler := newInspectionHandler(repo)

	payload, _ := json.Marshal(map[string]string{"schedule_id": "sched-1", "lesson_id": "lesson-1"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.items, 1)
}

func TestInspectionHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newInspectionHandler(&inspectionRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections", bytes.NewBufferString(`{"schedule_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInspectionHandlerCreateUnknownSchedule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newInspectionHandler(&inspectionRepoStub{items: map[string]*models.Inspection{}})

	payload, _ := json.Marshal(map[string]string{"schedule_id": "missing"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/inspections", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestInspectionHandlerDeleteMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newInspectionHandler(&inspectionRepoStub{items: map[string]*models.Inspection{}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/inspections/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestInspectionHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &inspectionRepoStub{items: map[string]*models.Inspection{
		"insp-1": {ID: "insp-1", ScheduleID: "sched-1"},
	}}
	handler := newInspectionHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/inspections/insp-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "insp-1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.items)
}
