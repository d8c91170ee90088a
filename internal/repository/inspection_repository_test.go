package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akademiklabs/inspection-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func ptr(s string) *string { return &s }

func TestInspectionRepositoryCreateLocksLesson(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInspectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM inspections WHERE schedule_id = $1 AND lesson_id = $2 FOR UPDATE")).
		WithArgs("sched-1", "lesson-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO inspections").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	inspection := &models.Inspection{ScheduleID: "sched-1", LessonID: ptr("lesson-1")}
	err := repo.Create(context.Background(), inspection)
	require.NoError(t, err)
	assert.NotEmpty(t, inspection.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepositoryCreateLessonTaken(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInspectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM inspections WHERE schedule_id = $1 AND lesson_id = $2 FOR UPDATE")).
		WithArgs("sched-1", "lesson-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("other-inspection"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Inspection{ScheduleID: "sched-1", LessonID: ptr("lesson-1")})
	require.ErrorIs(t, err, ErrLessonTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepositoryCreateWithoutLessonSkipsLock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInspectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inspections").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Inspection{ScheduleID: "sched-1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepositoryUpdateRefsRecheckAllowsOwnRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInspectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM inspections WHERE schedule_id = $1 AND lesson_id = $2 FOR UPDATE")).
		WithArgs("sched-1", "lesson-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("insp-1"))
	mock.ExpectExec("UPDATE inspections SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inspection := &models.Inspection{ID: "insp-1", ScheduleID: "sched-1", LessonID: ptr("lesson-1")}
	err := repo.UpdateRefs(context.Background(), inspection, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInspectionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM inspections WHERE id = $1")).
		WithArgs("insp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "insp-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM inspections WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
