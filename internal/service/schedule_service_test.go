package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/dto"
	"github.com/akademiklabs/inspection-api/internal/models"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type mockScheduleListRepo struct {
	schedules map[string]*models.InspectionSchedule
	semesters []string
}

func (m *mockScheduleListRepo) FindByID(ctx context.Context, id string) (*models.InspectionSchedule, error) {
	if schedule, ok := m.schedules[id]; ok {
		cp := *schedule
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleListRepo) ListSemesters(ctx context.Context) ([]string, error) {
	return m.semesters, nil
}

type mockSemesterInspectionRepo struct {
	entries []dto.ScheduleEntry
}

func (m *mockSemesterInspectionRepo) ListBySemester(ctx context.Context, semester string) ([]dto.ScheduleEntry, error) {
	return m.entries, nil
}

type mockScheduleLessonRepo struct{}

func (mockScheduleLessonRepo) ListBySemester(ctx context.Context, semester string) ([]models.Lesson, error) {
	return nil, nil
}

func (mockScheduleLessonRepo) ListByTeacherAndSubject(ctx context.Context, teacherID, subjectID string) ([]models.Lesson, error) {
	return nil, nil
}

type mockScheduleSubjectRepo struct{}

func (mockScheduleSubjectRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.Subject, error) {
	return nil, nil
}

type countingMemberLister struct {
	members map[string][]models.TeamMember
	calls   int
}

func (m *countingMemberLister) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	m.calls++
	return m.members[teamID], nil
}

func TestScheduleServiceResolvesRostersOncePerTeam(t *testing.T) {
	teamID := "team-1"
	inspections := &mockSemesterInspectionRepo{entries: []dto.ScheduleEntry{
		{LessonID: "l1", TimeSlot: "mon-08:00", TeamID: &teamID},
		{LessonID: "l2", TimeSlot: "tue-10:00", TeamID: &teamID},
		{LessonID: "l3", TimeSlot: "wed-09:00"},
	}}
	teams := &countingMemberLister{members: map[string][]models.TeamMember{
		"team-1": {{TeacherID: "t1", Title: "dr", FirstName: "Jan", Surname: "Kowalski"}},
	}}
	svc := NewScheduleService(&mockScheduleListRepo{}, inspections, mockScheduleLessonRepo{}, mockScheduleSubjectRepo{}, teams, zap.NewNop())

	entries, err := svc.Schedule(context.Background(), "2025-winter")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Len(t, entries[0].InspectionTeam, 1)
	assert.Equal(t, "Kowalski", entries[0].InspectionTeam[0].Surname)
	assert.Len(t, entries[1].InspectionTeam, 1)
	assert.Empty(t, entries[2].InspectionTeam)
	assert.Equal(t, 1, teams.calls)
}

func TestScheduleServiceSemesters(t *testing.T) {
	schedules := &mockScheduleListRepo{semesters: []string{"2024-summer", "2025-winter"}}
	svc := NewScheduleService(schedules, &mockSemesterInspectionRepo{}, mockScheduleLessonRepo{}, mockScheduleSubjectRepo{}, &countingMemberLister{}, zap.NewNop())

	semesters, err := svc.Semesters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-summer", "2025-winter"}, semesters)
}

func TestScheduleServiceGetScheduleNotFound(t *testing.T) {
	svc := NewScheduleService(&mockScheduleListRepo{}, &mockSemesterInspectionRepo{}, mockScheduleLessonRepo{}, mockScheduleSubjectRepo{}, &countingMemberLister{}, zap.NewNop())

	_, err := svc.GetSchedule(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
