package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/akademiklabs/inspection-api/internal/models"
)

// ScheduleRepository manages persistence for inspection schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// FindByID fetches a schedule by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.InspectionSchedule, error) {
	const query = `SELECT id, year_semester, administrator_id FROM inspection_schedules WHERE id = $1`
	var schedule models.InspectionSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListSemesters returns the distinct semesters schedules exist for.
func (r *ScheduleRepository) ListSemesters(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT year_semester FROM inspection_schedules ORDER BY year_semester ASC`
	var semesters []string
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}
