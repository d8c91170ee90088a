package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akademiklabs/inspection-api/internal/models"
)

// ReportRepository manages persistence for inspection reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = "id, lateness_minutes, students_attendance, room_adaptation, content_compatibility, substantive_rating, final_rating, objection, objection_note"

// FindByID fetches a report by ID.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.InspectionReport, error) {
	query := fmt.Sprintf("SELECT %s FROM inspection_reports WHERE id = $1", reportColumns)
	var report models.InspectionReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// CreateAndAttach inserts the report and links it to the inspection in
// a single transaction, so a failed link never leaves an orphan row.
func (r *ReportRepository) CreateAndAttach(ctx context.Context, inspectionID string, report *models.InspectionReport) (err error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `INSERT INTO inspection_reports (id, lateness_minutes, students_attendance, room_adaptation, content_compatibility, substantive_rating, final_rating, objection, objection_note)
		VALUES (:id, :lateness_minutes, :students_attendance, :room_adaptation, :content_compatibility, :substantive_rating, :final_rating, :objection, :objection_note)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, report); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	const attachQuery = `UPDATE inspections SET report_id = $2, updated_at = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, attachQuery, inspectionID, report.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("link report to inspection: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}

// Update persists the full report row after a patch has been applied.
func (r *ReportRepository) Update(ctx context.Context, report *models.InspectionReport) error {
	const query = `UPDATE inspection_reports SET
		lateness_minutes = :lateness_minutes,
		students_attendance = :students_attendance,
		room_adaptation = :room_adaptation,
		content_compatibility = :content_compatibility,
		substantive_rating = :substantive_rating,
		final_rating = :final_rating,
		objection = :objection,
		objection_note = :objection_note
	WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}
