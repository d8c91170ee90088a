package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/models"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type mockTeamRepo struct {
	teams       map[string]*models.InspectionTeam
	members     map[string][]models.TeamMember
	createErr   error
	addErr      error
	added       [][2]string
	removed     [][2]string
	removeFound bool
}

func (m *mockTeamRepo) List(ctx context.Context) ([]models.InspectionTeam, error) {
	out := make([]models.InspectionTeam, 0, len(m.teams))
	for _, team := range m.teams {
		out = append(out, *team)
	}
	return out, nil
}

func (m *mockTeamRepo) FindByID(ctx context.Context, id string) (*models.InspectionTeam, error) {
	if team, ok := m.teams[id]; ok {
		cp := *team
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeamRepo) Create(ctx context.Context, team *models.InspectionTeam) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.teams == nil {
		m.teams = make(map[string]*models.InspectionTeam)
	}
	if team.ID == "" {
		team.ID = "generated"
	}
	cp := *team
	m.teams[team.ID] = &cp
	return nil
}

func (m *mockTeamRepo) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	return m.members[teamID], nil
}

func (m *mockTeamRepo) HasMember(ctx context.Context, teamID, teacherID string) (bool, error) {
	for _, member := range m.members[teamID] {
		if member.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeamRepo) AddMember(ctx context.Context, teamID, teacherID string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, [2]string{teamID, teacherID})
	return nil
}

func (m *mockTeamRepo) RemoveMember(ctx context.Context, teamID, teacherID string) (bool, error) {
	m.removed = append(m.removed, [2]string{teamID, teacherID})
	return m.removeFound, nil
}

func newTeamFixture() (*mockTeamRepo, *mockTeacherFinder, *mockInvalidator) {
	teams := &mockTeamRepo{
		teams:   map[string]*models.InspectionTeam{"team-1": {ID: "team-1", Name: "Alpha"}},
		members: map[string][]models.TeamMember{},
	}
	teachers := &mockTeacherFinder{items: map[string]*models.Teacher{
		"teach-1": {ID: "teach-1", Department: "math"},
	}}
	return teams, teachers, &mockInvalidator{}
}

func TestTeamServiceCreate(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	team, err := svc.Create(context.Background(), CreateTeamRequest{Name: "Beta"})
	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, 1, invalidator.calls)
}

func TestTeamServiceCreateDuplicateName(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	teams.createErr = &pq.Error{Code: "23505"}
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTeamRequest{Name: "Alpha"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Zero(t, invalidator.calls)
}

func TestTeamServiceCreateRejectsBlankName(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTeamRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeamServiceAddMember(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	require.NoError(t, svc.AddMember(context.Background(), "team-1", "teach-1"))
	require.Len(t, teams.added, 1)
	assert.Equal(t, [2]string{"team-1", "teach-1"}, teams.added[0])
	assert.Equal(t, 1, invalidator.calls)
}

func TestTeamServiceAddExistingMemberConflicts(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	teams.members["team-1"] = []models.TeamMember{{TeacherID: "teach-1"}}
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	err := svc.AddMember(context.Background(), "team-1", "teach-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, teams.added)
}

func TestTeamServiceAddMemberUnknownTeacher(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	err := svc.AddMember(context.Background(), "team-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeamServiceRemoveMember(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	teams.removeFound = true
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	require.NoError(t, svc.RemoveMember(context.Background(), "team-1", "teach-1"))
	assert.Equal(t, 1, invalidator.calls)
}

func TestTeamServiceRemoveMissingMember(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	err := svc.RemoveMember(context.Background(), "team-1", "teach-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, invalidator.calls)
}

func TestTeamServiceGetUnknownTeam(t *testing.T) {
	teams, teachers, invalidator := newTeamFixture()
	svc := NewTeamService(teams, teachers, invalidator, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
