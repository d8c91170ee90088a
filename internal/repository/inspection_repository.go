package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akademiklabs/inspection-api/internal/dto"
	"github.com/akademiklabs/inspection-api/internal/models"
)

// ErrLessonTaken is returned when a lesson already has an active
// inspection under the same schedule.
var ErrLessonTaken = fmt.Errorf("lesson already has an inspection scheduled")

// InspectionRepository manages persistence for inspection assignments.
// The per-(schedule, lesson) uniqueness invariant is enforced inside a
// transaction; a partial unique index on inspections(schedule_id,
// lesson_id) WHERE lesson_id IS NOT NULL backstops the race.
type InspectionRepository struct {
	db *sqlx.DB
}

// NewInspectionRepository constructs an InspectionRepository.
func NewInspectionRepository(db *sqlx.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

const inspectionColumns = "id, schedule_id, team_id, lesson_id, report_id, created_at, updated_at"

// FindByID fetches an inspection by ID.
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*models.Inspection, error) {
	query := fmt.Sprintf("SELECT %s FROM inspections WHERE id = $1", inspectionColumns)
	var inspection models.Inspection
	if err := r.db.GetContext(ctx, &inspection, query, id); err != nil {
		return nil, err
	}
	return &inspection, nil
}

// Create inserts the inspection after verifying no active inspection
// references the same lesson within the schedule. Check and insert run
// in one transaction so concurrent creates cannot both pass.
func (r *InspectionRepository) Create(ctx context.Context, inspection *models.Inspection) (err error) {
	if inspection.ID == "" {
		inspection.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	inspection.CreatedAt = now
	inspection.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin inspection transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if inspection.LessonID != nil {
		if err = lockLessonAssignment(ctx, tx, inspection.ScheduleID, *inspection.LessonID, ""); err != nil {
			return err
		}
	}

	const insertQuery = `INSERT INTO inspections (id, schedule_id, team_id, lesson_id, report_id, created_at, updated_at)
		VALUES (:id, :schedule_id, :team_id, :lesson_id, :report_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, inspection); err != nil {
		if IsUniqueViolation(err) {
			err = ErrLessonTaken
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit inspection: %w", err)
	}
	return nil
}

// UpdateRefs applies a partial team/lesson update. When the lesson
// reference changes, the same per-schedule uniqueness check used on
// create runs inside the update transaction.
func (r *InspectionRepository) UpdateRefs(ctx context.Context, inspection *models.Inspection, recheckLesson bool) (err error) {
	inspection.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin inspection update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if recheckLesson && inspection.LessonID != nil {
		if err = lockLessonAssignment(ctx, tx, inspection.ScheduleID, *inspection.LessonID, inspection.ID); err != nil {
			return err
		}
	}

	const query = `UPDATE inspections SET team_id = :team_id, lesson_id = :lesson_id, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, query, inspection); err != nil {
		if IsUniqueViolation(err) {
			err = ErrLessonTaken
		}
		return fmt.Errorf("update inspection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit inspection update: %w", err)
	}
	return nil
}

// lockLessonAssignment takes a row lock on any inspection already
// holding the (schedule, lesson) pair and fails with ErrLessonTaken
// when a different record owns it.
func lockLessonAssignment(ctx context.Context, tx *sqlx.Tx, scheduleID, lessonID, excludeID string) error {
	const query = `SELECT id FROM inspections WHERE schedule_id = $1 AND lesson_id = $2 FOR UPDATE`
	var existingID string
	err := tx.GetContext(ctx, &existingID, query, scheduleID, lessonID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check lesson assignment: %w", err)
	}
	if existingID != excludeID {
		return ErrLessonTaken
	}
	return nil
}

// AttachReport stores the report id on the inspection.
func (r *InspectionRepository) AttachReport(ctx context.Context, inspectionID, reportID string) error {
	const query = `UPDATE inspections SET report_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, inspectionID, reportID, time.Now().UTC()); err != nil {
		return fmt.Errorf("attach report: %w", err)
	}
	return nil
}

// Delete removes the inspection, reporting whether a row existed.
func (r *InspectionRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM inspections WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete inspection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete inspection: %w", err)
	}
	return affected > 0, nil
}

// List returns the flattened inspection listing joined with lesson,
// subject and teacher.
func (r *InspectionRepository) List(ctx context.Context) ([]dto.InspectionListItem, error) {
	const query = `
SELECT
	i.id,
	l.time_slot,
	s.name AS subject_name,
	s.category AS subject_type,
	t.id AS teacher_id,
	t.title AS teacher_title,
	t.first_name AS teacher_name,
	t.surname AS teacher_surname,
	l.id AS lesson_id,
	i.team_id
FROM inspections i
JOIN lessons l ON l.id = i.lesson_id
JOIN subjects s ON s.id = l.subject_id
JOIN teachers t ON t.id = l.teacher_id
ORDER BY l.time_slot ASC`
	var items []dto.InspectionListItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	return items, nil
}

// ListBySemester returns the schedule entries of every inspected lesson
// in the semester.
func (r *InspectionRepository) ListBySemester(ctx context.Context, semester string) ([]dto.ScheduleEntry, error) {
	const query = `
SELECT
	l.id AS lesson_id,
	l.time_slot,
	l.room,
	l.building,
	s.name AS subject_name,
	s.category AS subject_type,
	t.title AS teacher_title,
	t.first_name AS teacher_name,
	t.surname AS teacher_surname,
	i.team_id
FROM inspections i
JOIN inspection_schedules isc ON isc.id = i.schedule_id
JOIN lessons l ON l.id = i.lesson_id
JOIN subjects s ON s.id = l.subject_id
JOIN teachers t ON t.id = l.teacher_id
WHERE isc.year_semester = $1
ORDER BY l.time_slot ASC`
	var entries []dto.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, semester); err != nil {
		return nil, fmt.Errorf("list inspections by semester: %w", err)
	}
	return entries, nil
}
