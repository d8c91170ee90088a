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
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type reportRepository interface {
	FindByID(ctx context.Context, id string) (*models.InspectionReport, error)
	CreateAndAttach(ctx context.Context, inspectionID string, report *models.InspectionReport) error
	Update(ctx context.Context, report *models.InspectionReport) error
}

type reportInspectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Inspection, error)
}

type reportLessonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
}

type reportSubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type reportTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type reportTeamRepository interface {
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

// CreateReportRequest is the payload for attaching a report to an
// inspection.
type CreateReportRequest struct {
	LatenessMinutes      *int    `json:"lateness_minutes" validate:"omitempty,min=0"`
	StudentsAttendance   int     `json:"students_attendance" validate:"min=0"`
	RoomAdaptation       string  `json:"room_adaptation" validate:"required"`
	ContentCompatibility int     `json:"content_compatibility" validate:"min=0"`
	SubstantiveRating    string  `json:"substantive_rating" validate:"required"`
	FinalRating          int     `json:"final_rating" validate:"min=0"`
	Objection            bool    `json:"objection"`
	ObjectionNote        *string `json:"objection_note"`
}

// ReportService attaches, edits and projects inspection reports.
type ReportService struct {
	reports     reportRepository
	inspections reportInspectionRepository
	lessons     reportLessonRepository
	subjects    reportSubjectRepository
	teachers    reportTeacherRepository
	teams       reportTeamRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(reports reportRepository, inspections reportInspectionRepository, lessons reportLessonRepository, subjects reportSubjectRepository, teachers reportTeacherRepository, teams reportTeamRepository, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reports:     reports,
		inspections: inspections,
		lessons:     lessons,
		subjects:    subjects,
		teachers:    teachers,
		teams:       teams,
		validator:   validate,
		logger:      logger,
	}
}

// Attach creates a report for the inspection. An inspection carries at
// most one report, so attaching to an already reported inspection is a
// conflict.
func (s *ReportService) Attach(ctx context.Context, inspectionID string, req CreateReportRequest) (*models.InspectionReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	inspection, err := s.getInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.ReportID != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "inspection already has a report")
	}
	if !models.CanTransition(inspection.Status(nil), models.StatusReported) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "inspection is not ready for a report")
	}

	report := &models.InspectionReport{
		LatenessMinutes:      req.LatenessMinutes,
		StudentsAttendance:   req.StudentsAttendance,
		RoomAdaptation:       req.RoomAdaptation,
		ContentCompatibility: req.ContentCompatibility,
		SubstantiveRating:    req.SubstantiveRating,
		FinalRating:          req.FinalRating,
		Objection:            req.Objection,
		ObjectionNote:        req.ObjectionNote,
	}

	if err := s.reports.CreateAndAttach(ctx, inspection.ID, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to store report")
	}

	s.logger.Info("report attached",
		zap.String("inspection_id", inspection.ID),
		zap.String("report_id", report.ID))
	return report, nil
}

// Edit applies a partial update to an existing report. Editing an
// inspection without a report is not found, never an implicit create.
// An all-nil patch succeeds without touching the store.
func (s *ReportService) Edit(ctx context.Context, inspectionID string, patch models.ReportPatch) (*models.InspectionReport, error) {
	inspection, err := s.getInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.ReportID == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection has no report to edit")
	}

	report, err := s.getReport(ctx, *inspection.ReportID)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return report, nil
	}

	patch.Apply(report)

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update report")
	}
	return report, nil
}

// Get returns the report attached to the inspection.
func (s *ReportService) Get(ctx context.Context, inspectionID string) (*models.InspectionReport, error) {
	inspection, err := s.getInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.ReportID == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection has no report")
	}
	return s.getReport(ctx, *inspection.ReportID)
}

// Detail builds the single-inspection projection: inspected lesson
// context, inspecting roster and report payload when present.
func (s *ReportService) Detail(ctx context.Context, inspectionID string) (*dto.InspectionDetail, error) {
	inspection, err := s.getInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	detail := &dto.InspectionDetail{InspectionID: inspection.ID}

	var report *models.InspectionReport
	if inspection.ReportID != nil {
		report, err = s.getReport(ctx, *inspection.ReportID)
		if err != nil {
			return nil, err
		}
		detail.Report = report
	}
	detail.Status = inspection.Status(report)

	if inspection.LessonID != nil {
		lesson, err := s.lessons.FindByID(ctx, *inspection.LessonID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load lesson")
		}
		detail.DateOfInspection = string(lesson.TimeSlot)

		subject, err := s.subjects.FindByID(ctx, lesson.SubjectID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load subject")
		}
		if subject != nil {
			detail.SubjectName = subject.Name
			detail.SubjectCode = subject.Code
		}

		teacher, err := s.teachers.FindByID(ctx, lesson.TeacherID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load teacher")
		}
		if teacher != nil {
			detail.InspectedName = fmt.Sprintf("%s %s %s", teacher.Title, teacher.FirstName, teacher.Surname)
			detail.DepartmentName = teacher.Department
		}
	}

	if inspection.TeamID != nil {
		members, err := s.teams.ListMembers(ctx, *inspection.TeamID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load team members")
		}
		inspectors := make([]dto.EligibleMember, 0, len(members))
		for _, member := range members {
			inspectors = append(inspectors, dto.EligibleMember{
				TeacherID:  member.TeacherID,
				FirstName:  member.FirstName,
				Surname:    member.Surname,
				Title:      member.Title,
				Department: member.Department,
			})
		}
		detail.Inspectors = inspectors
	}

	return detail, nil
}

func (s *ReportService) getInspection(ctx context.Context, id string) (*models.Inspection, error) {
	inspection, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load inspection")
	}
	return inspection, nil
}

func (s *ReportService) getReport(ctx context.Context, id string) (*models.InspectionReport, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load report")
	}
	return report, nil
}
