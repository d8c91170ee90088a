package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/akademiklabs/inspection-api/internal/models"
)

// LessonRepository manages persistence for lessons and the time-slot
// lookups the eligibility filter depends on.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

const lessonColumns = "id, time_slot, room, building, subject_id, teacher_id, semester"

// FindByID fetches a lesson by ID.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE id = $1", lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListBySemester returns all lessons scheduled in the given semester.
func (r *LessonRepository) ListBySemester(ctx context.Context, semester string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE semester = $1 ORDER BY time_slot ASC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, semester); err != nil {
		return nil, fmt.Errorf("list lessons by semester: %w", err)
	}
	return lessons, nil
}

// ListByTeacherAndSubject returns the lessons a teacher gives for one subject.
func (r *LessonRepository) ListByTeacherAndSubject(ctx context.Context, teacherID, subjectID string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE teacher_id = $1 AND subject_id = $2 ORDER BY time_slot ASC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, teacherID, subjectID); err != nil {
		return nil, fmt.Errorf("list lessons by teacher and subject: %w", err)
	}
	return lessons, nil
}

// SlotsByTeacher returns the time slots of every lesson the teacher
// gives themselves.
func (r *LessonRepository) SlotsByTeacher(ctx context.Context, teacherID string) ([]models.TimeSlot, error) {
	const query = `SELECT time_slot FROM lessons WHERE teacher_id = $1`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, teacherID); err != nil {
		return nil, fmt.Errorf("slots by teacher: %w", err)
	}
	return slots, nil
}

// CommittedSlotsByTeacher returns the time slots of lessons the teacher
// is already committed to inspect, through inspections assigned to any
// team the teacher belongs to.
func (r *LessonRepository) CommittedSlotsByTeacher(ctx context.Context, teacherID string) ([]models.TimeSlot, error) {
	const query = `
SELECT l.time_slot
FROM lessons l
JOIN inspections i ON i.lesson_id = l.id
JOIN team_members tm ON tm.team_id = i.team_id
WHERE tm.teacher_id = $1`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, teacherID); err != nil {
		return nil, fmt.Errorf("committed slots by teacher: %w", err)
	}
	return slots, nil
}
