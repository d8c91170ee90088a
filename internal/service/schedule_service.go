package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/dto"
	"github.com/akademiklabs/inspection-api/internal/models"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type scheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.InspectionSchedule, error)
	ListSemesters(ctx context.Context) ([]string, error)
}

type scheduleInspectionRepository interface {
	ListBySemester(ctx context.Context, semester string) ([]dto.ScheduleEntry, error)
}

type scheduleLessonRepository interface {
	ListBySemester(ctx context.Context, semester string) ([]models.Lesson, error)
	ListByTeacherAndSubject(ctx context.Context, teacherID, subjectID string) ([]models.Lesson, error)
}

type scheduleSubjectRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Subject, error)
}

type scheduleTeamRepository interface {
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

// ScheduleService answers the read-side questions around inspection
// schedules: semesters, the semester schedule projection, and the
// lesson/subject lookups used when fixing a lesson.
type ScheduleService struct {
	schedules   scheduleRepository
	inspections scheduleInspectionRepository
	lessons     scheduleLessonRepository
	subjects    scheduleSubjectRepository
	teams       scheduleTeamRepository
	logger      *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(schedules scheduleRepository, inspections scheduleInspectionRepository, lessons scheduleLessonRepository, subjects scheduleSubjectRepository, teams scheduleTeamRepository, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		schedules:   schedules,
		inspections: inspections,
		lessons:     lessons,
		subjects:    subjects,
		teams:       teams,
		logger:      logger,
	}
}

// Semesters returns the distinct semesters inspection schedules exist for.
func (s *ScheduleService) Semesters(ctx context.Context) ([]string, error) {
	semesters, err := s.schedules.ListSemesters(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list semesters")
	}
	return semesters, nil
}

// Schedule builds the semester inspection schedule: one entry per
// inspected lesson with the inspecting roster resolved.
func (s *ScheduleService) Schedule(ctx context.Context, semester string) ([]dto.ScheduleEntry, error) {
	entries, err := s.inspections.ListBySemester(ctx, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load semester schedule")
	}

	// Rosters repeat across entries; resolve each team once.
	rosters := make(map[string][]dto.ScheduleInspector)
	for i := range entries {
		if entries[i].TeamID == nil {
			entries[i].InspectionTeam = []dto.ScheduleInspector{}
			continue
		}
		teamID := *entries[i].TeamID
		roster, ok := rosters[teamID]
		if !ok {
			members, err := s.teams.ListMembers(ctx, teamID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load team members")
			}
			roster = make([]dto.ScheduleInspector, 0, len(members))
			for _, member := range members {
				roster = append(roster, dto.ScheduleInspector{
					Title:     member.Title,
					FirstName: member.FirstName,
					Surname:   member.Surname,
				})
			}
			rosters[teamID] = roster
		}
		entries[i].InspectionTeam = roster
	}

	return entries, nil
}

// GetSchedule fetches one schedule record.
func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (*models.InspectionSchedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inspection schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load schedule")
	}
	return schedule, nil
}

// LessonsBySemester returns the lessons available for inspection in the
// semester.
func (s *ScheduleService) LessonsBySemester(ctx context.Context, semester string) ([]models.Lesson, error) {
	lessons, err := s.lessons.ListBySemester(ctx, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list lessons")
	}
	return lessons, nil
}

// LessonsByTeacherAndSubject returns the lessons a teacher gives for one
// subject, used when an administrator fixes a lesson for inspection.
func (s *ScheduleService) LessonsByTeacherAndSubject(ctx context.Context, teacherID, subjectID string) ([]models.Lesson, error) {
	lessons, err := s.lessons.ListByTeacherAndSubject(ctx, teacherID, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list lessons")
	}
	return lessons, nil
}

// SubjectsByTeacher returns the subjects a teacher has lessons for.
func (s *ScheduleService) SubjectsByTeacher(ctx context.Context, teacherID string) ([]models.Subject, error) {
	subjects, err := s.subjects.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list subjects")
	}
	return subjects, nil
}
