package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akademiklabs/inspection-api/internal/models"
)

func TestTeamRepositoryListCandidatesExcludesTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("team-1", "Alpha").
		AddRow("team-2", "Beta")
	mock.ExpectQuery(`(?s)SELECT it\.id, it\.name.*NOT EXISTS.*ORDER BY it\.position ASC`).
		WithArgs("teach-1").
		WillReturnRows(rows)

	teams, err := repo.ListCandidates(context.Background(), "teach-1")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "team-1", teams[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryListMembersKeepsRosterOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	// The roster must come back in the order members were added, which
	// only the serial position column provides; uuid row ids sort in
	// random lexicographic order.
	rows := sqlmock.NewRows([]string{"membership_id", "team_id", "teacher_id", "title", "first_name", "surname", "department"}).
		AddRow("m1", "team-1", "t3", "dr", "Ewa", "Lis", "physics").
		AddRow("m2", "team-1", "t1", "prof", "Jan", "Kowalski", "math")
	mock.ExpectQuery(`(?s)SELECT tm\.id AS membership_id.*ORDER BY tm\.position ASC`).
		WithArgs("team-1").
		WillReturnRows(rows)

	members, err := repo.ListMembers(context.Background(), "team-1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "t3", members[0].TeacherID)
	assert.Equal(t, "t1", members[1].TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryCreateSurfacesUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	mock.ExpectExec("INSERT INTO inspection_teams").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.InspectionTeam{Name: "Alpha"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryHasMember(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM team_members WHERE team_id = $1 AND teacher_id = $2 LIMIT 1")).
		WithArgs("team-1", "teach-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.HasMember(context.Background(), "team-1", "teach-1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM team_members WHERE team_id = $1 AND teacher_id = $2 LIMIT 1")).
		WithArgs("team-1", "other").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.HasMember(context.Background(), "team-1", "other")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.False(t, IsUniqueViolation(nil))
}
