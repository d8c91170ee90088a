package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/dto"
	"github.com/akademiklabs/inspection-api/internal/models"
	"github.com/akademiklabs/inspection-api/internal/repository"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type inspectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Inspection, error)
	Create(ctx context.Context, inspection *models.Inspection) error
	UpdateRefs(ctx context.Context, inspection *models.Inspection, recheckLesson bool) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]dto.InspectionListItem, error)
}

type inspectionScheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.InspectionSchedule, error)
}

type inspectionLessonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
}

type inspectionReportReader interface {
	FindByID(ctx context.Context, id string) (*models.InspectionReport, error)
}

type cacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// CreateInspectionRequest is the payload for creating an assignment.
// Team and lesson are each optional; the lifecycle allows fixing them
// independently.
type CreateInspectionRequest struct {
	ScheduleID string  `json:"schedule_id" validate:"required"`
	TeamID     *string `json:"team_id"`
	LessonID   *string `json:"lesson_id"`
}

// EditInspectionRequest is a partial update of the team/lesson
// references. Nil leaves a reference untouched; an explicit empty
// string clears it.
type EditInspectionRequest struct {
	TeamID   *string `json:"team_id"`
	LessonID *string `json:"lesson_id"`
}

// InspectionService owns the assignment lifecycle: creation,
// reassignment and deletion, under the one-active-inspection-per-lesson
// invariant.
type InspectionService struct {
	inspections inspectionRepository
	schedules   inspectionScheduleRepository
	lessons     inspectionLessonRepository
	reports     inspectionReportReader
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewInspectionService constructs an InspectionService.
func NewInspectionService(inspections inspectionRepository, schedules inspectionScheduleRepository, lessons inspectionLessonRepository, reports inspectionReportReader, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *InspectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InspectionService{
		inspections: inspections,
		schedules:   schedules,
		lessons:     lessons,
		reports:     reports,
		invalidator: invalidator,
		validator:   validate,
		logger:      logger,
	}
}

// Create registers a new inspection assignment under the schedule.
func (s *InspectionService) Create(ctx context.Context, req CreateInspectionRequest) (*models.Inspection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inspection payload")
	}

	if _, err := s.schedules.FindByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load schedule")
	}

	if req.LessonID != nil {
		if err := s.ensureLessonExists(ctx, *req.LessonID); err != nil {
			return nil, err
		}
	}

	inspection := &models.Inspection{
		ScheduleID: req.ScheduleID,
		TeamID:     normalizeRef(req.TeamID),
		LessonID:   normalizeRef(req.LessonID),
	}

	if err := s.inspections.Create(ctx, inspection); err != nil {
		if errors.Is(err, repository.ErrLessonTaken) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "lesson already has an inspection scheduled")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create inspection")
	}

	s.invalidate(ctx)
	s.logger.Info("inspection created",
		zap.String("inspection_id", inspection.ID),
		zap.String("schedule_id", inspection.ScheduleID))
	return inspection, nil
}

// Edit applies a partial team/lesson update. An empty request is a
// no-op success. Changing the lesson re-checks the per-schedule
// uniqueness invariant.
func (s *InspectionService) Edit(ctx context.Context, id string, req EditInspectionRequest) (*models.Inspection, error) {
	inspection, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TeamID == nil && req.LessonID == nil {
		return inspection, nil
	}

	recheck := false
	if req.TeamID != nil {
		inspection.TeamID = normalizeRef(req.TeamID)
	}
	if req.LessonID != nil {
		next := normalizeRef(req.LessonID)
		if !refEqual(inspection.LessonID, next) {
			recheck = next != nil
			if next != nil {
				if err := s.ensureLessonExists(ctx, *next); err != nil {
					return nil, err
				}
			}
			inspection.LessonID = next
		}
	}

	if err := s.inspections.UpdateRefs(ctx, inspection, recheck); err != nil {
		if errors.Is(err, repository.ErrLessonTaken) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "lesson already has an inspection scheduled")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update inspection")
	}

	s.invalidate(ctx)
	return inspection, nil
}

// Delete removes the inspection irreversibly.
func (s *InspectionService) Delete(ctx context.Context, id string) error {
	deleted, err := s.inspections.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete inspection")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
	}
	s.invalidate(ctx)
	s.logger.Info("inspection deleted", zap.String("inspection_id", id))
	return nil
}

// Get returns one inspection with its derived lifecycle status.
func (s *InspectionService) Get(ctx context.Context, id string) (*models.Inspection, models.InspectionStatus, error) {
	inspection, err := s.get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var report *models.InspectionReport
	if inspection.ReportID != nil {
		report, err = s.reports.FindByID(ctx, *inspection.ReportID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load report")
		}
	}

	return inspection, inspection.Status(report), nil
}

// List returns the flattened inspection listing with composed teacher
// display names.
func (s *InspectionService) List(ctx context.Context) ([]dto.InspectionListItem, error) {
	items, err := s.inspections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list inspections")
	}
	for i := range items {
		items[i].Teacher = fmt.Sprintf("%s %s %s", items[i].TeacherTitle, items[i].TeacherName, items[i].TeacherSurname)
	}
	return items, nil
}

func (s *InspectionService) get(ctx context.Context, id string) (*models.Inspection, error) {
	inspection, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load inspection")
	}
	return inspection, nil
}

func (s *InspectionService) ensureLessonExists(ctx context.Context, lessonID string) error {
	if _, err := s.lessons.FindByID(ctx, lessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load lesson")
	}
	return nil
}

func (s *InspectionService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
}

// normalizeRef turns an explicit empty string into a cleared reference.
func normalizeRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	return ref
}

func refEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
