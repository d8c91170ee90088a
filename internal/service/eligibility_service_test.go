package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/models"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type mockEligibilityTeacherRepo struct {
	items map[string]*models.Teacher
}

func (m *mockEligibilityTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockEligibilityLessonRepo struct {
	lessons   map[string]*models.Lesson
	own       map[string][]models.TimeSlot
	committed map[string][]models.TimeSlot
	consulted []string
}

func (m *mockEligibilityLessonRepo) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	if lesson, ok := m.lessons[id]; ok {
		cp := *lesson
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEligibilityLessonRepo) SlotsByTeacher(ctx context.Context, teacherID string) ([]models.TimeSlot, error) {
	m.consulted = append(m.consulted, teacherID)
	return m.own[teacherID], nil
}

func (m *mockEligibilityLessonRepo) CommittedSlotsByTeacher(ctx context.Context, teacherID string) ([]models.TimeSlot, error) {
	return m.committed[teacherID], nil
}

type mockEligibilityTeamRepo struct {
	candidates      []models.InspectionTeam
	members         map[string][]models.TeamMember
	excludedTeacher string
}

func (m *mockEligibilityTeamRepo) ListCandidates(ctx context.Context, excludeTeacherID string) ([]models.InspectionTeam, error) {
	m.excludedTeacher = excludeTeacherID
	return m.candidates, nil
}

func (m *mockEligibilityTeamRepo) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	return m.members[teamID], nil
}

func member(teacherID, department string) models.TeamMember {
	return models.TeamMember{
		TeacherID:  teacherID,
		FirstName:  "First-" + teacherID,
		Surname:    "Sur-" + teacherID,
		Title:      "dr",
		Department: department,
	}
}

func newEligibilityFixture() (*mockEligibilityTeacherRepo, *mockEligibilityLessonRepo, *mockEligibilityTeamRepo) {
	teachers := &mockEligibilityTeacherRepo{items: map[string]*models.Teacher{
		"inspected": {ID: "inspected", FirstName: "Ada", Surname: "Nowak", Department: "math"},
	}}
	lessons := &mockEligibilityLessonRepo{
		lessons: map[string]*models.Lesson{
			"lesson-1": {ID: "lesson-1", TimeSlot: "mon-08:00", TeacherID: "inspected", SubjectID: "subj-1"},
		},
		own:       map[string][]models.TimeSlot{},
		committed: map[string][]models.TimeSlot{},
	}
	teams := &mockEligibilityTeamRepo{members: map[string][]models.TeamMember{}}
	return teachers, lessons, teams
}

func TestEligibilityMemberWithSlotCollisionSkipped(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{
		member("busy", "physics"),
		member("free", "chemistry"),
	}
	lessons.own["busy"] = []models.TimeSlot{"mon-08:00"}

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Members, 1)
	assert.Equal(t, "free", result[0].Members[0].TeacherID)
}

func TestEligibilityInspectionCommitmentCountsAsBusy(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{member("committed", "physics")}
	lessons.committed["committed"] = []models.TimeSlot{"mon-08:00"}

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestEligibilitySameDepartmentCapExcludesTeam(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{
		member("m1", "math"),
		member("m2", "math"),
		member("m3", "physics"),
	}

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestEligibilitySingleSameDepartmentMemberAllowed(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{
		member("m1", "math"),
		member("m2", "physics"),
	}

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Len(t, result[0].Members, 2)
}

func TestEligibilityConflictingSameDepartmentMemberNotCounted(t *testing.T) {
	// A same-department member who cannot attend is skipped before the
	// department cap is evaluated, so the team survives with the one
	// remaining same-department member.
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{
		member("busy-math", "math"),
		member("free-math", "math"),
		member("other", "biology"),
	}
	lessons.own["busy-math"] = []models.TimeSlot{"mon-08:00"}

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Members, 2)
	assert.Equal(t, "free-math", result[0].Members[0].TeacherID)
}

func TestEligibilityDepartmentCapStopsEvaluationEarly(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{
		member("m1", "math"),
		member("m2", "math"),
		member("m3", "physics"),
	}
	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	assert.Empty(t, result)
	// Evaluation stops at the second same-department member; the rest
	// of the roster is never consulted.
	assert.NotContains(t, lessons.consulted, "m3")
}

func TestEligibilityExcludesInspectedTeacherTeams(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, "inspected", teams.excludedTeacher)
}

func TestEligibilityEmptyResultIsSuccess(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{member("busy", "physics")}
	lessons.own["busy"] = []models.TimeSlot{"mon-08:00"}

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestEligibilityLessonNotFound(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	_, err := svc.GetEligibleTeams(context.Background(), "inspected", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEligibilityTeacherNotFound(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	_, err := svc.GetEligibleTeams(context.Background(), "missing", "lesson-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEligibilityMembersKeptInRosterOrder(t *testing.T) {
	teachers, lessons, teams := newEligibilityFixture()
	teams.candidates = []models.InspectionTeam{{ID: "team-1", Name: "Alpha"}}
	teams.members["team-1"] = []models.TeamMember{
		member("c", "physics"),
		member("a", "biology"),
		member("b", "chemistry"),
	}

	svc := NewEligibilityService(teachers, lessons, teams, nil, 0, nil, zap.NewNop())
	result, err := svc.GetEligibleTeams(context.Background(), "inspected", "lesson-1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	ids := []string{result[0].Members[0].TeacherID, result[0].Members[1].TeacherID, result[0].Members[2].TeacherID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
