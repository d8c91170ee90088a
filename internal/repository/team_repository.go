package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/akademiklabs/inspection-api/internal/models"
)

// pqUniqueViolation is the Postgres error code for unique constraint
// violations; the services translate it into a Conflict.
const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether the error is a Postgres unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}

// TeamRepository manages inspection teams and their memberships.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs a TeamRepository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// List returns all inspection teams in creation order.
func (r *TeamRepository) List(ctx context.Context) ([]models.InspectionTeam, error) {
	const query = `SELECT id, name FROM inspection_teams ORDER BY position ASC`
	var teams []models.InspectionTeam
	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// FindByID fetches a team by ID.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.InspectionTeam, error) {
	const query = `SELECT id, name FROM inspection_teams WHERE id = $1`
	var team models.InspectionTeam
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		return nil, err
	}
	return &team, nil
}

// Create inserts a new team. The unique index on name surfaces
// duplicates as a unique violation.
func (r *TeamRepository) Create(ctx context.Context, team *models.InspectionTeam) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	const query = `INSERT INTO inspection_teams (id, name) VALUES (:id, :name)`
	if _, err := r.db.NamedExecContext(ctx, query, team); err != nil {
		return err
	}
	return nil
}

// ListCandidates returns teams that have at least one member and do not
// include the given teacher, in creation order. Ordering by position
// rather than the uuid id keeps enumeration deterministic.
func (r *TeamRepository) ListCandidates(ctx context.Context, excludeTeacherID string) ([]models.InspectionTeam, error) {
	const query = `
SELECT it.id, it.name
FROM inspection_teams it
WHERE EXISTS (
	SELECT 1 FROM team_members WHERE team_id = it.id
)
AND NOT EXISTS (
	SELECT 1 FROM team_members WHERE team_id = it.id AND teacher_id = $1
)
ORDER BY it.position ASC`
	var teams []models.InspectionTeam
	if err := r.db.SelectContext(ctx, &teams, query, excludeTeacherID); err != nil {
		return nil, fmt.Errorf("list candidate teams: %w", err)
	}
	return teams, nil
}

// ListMembers returns a team's members in the order they were added.
// The serial position column carries that order; the uuid row id does
// not sort chronologically.
func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	const query = `
SELECT tm.id AS membership_id, tm.team_id, t.id AS teacher_id, t.title, t.first_name, t.surname, t.department
FROM team_members tm
JOIN teachers t ON t.id = tm.teacher_id
WHERE tm.team_id = $1
ORDER BY tm.position ASC`
	var members []models.TeamMember
	if err := r.db.SelectContext(ctx, &members, query, teamID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

// HasMember reports whether the teacher already belongs to the team.
func (r *TeamRepository) HasMember(ctx context.Context, teamID, teacherID string) (bool, error) {
	const query = `SELECT 1 FROM team_members WHERE team_id = $1 AND teacher_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teamID, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check team membership: %w", err)
	}
	return true, nil
}

// AddMember inserts a membership row. The unique (team, teacher) index
// backstops concurrent duplicates.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, teacherID string) error {
	const query = `INSERT INTO team_members (id, team_id, teacher_id) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), teamID, teacherID); err != nil {
		return err
	}
	return nil
}

// RemoveMember deletes a membership row, reporting whether one existed.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, teacherID string) (bool, error) {
	const query = `DELETE FROM team_members WHERE team_id = $1 AND teacher_id = $2`
	res, err := r.db.ExecContext(ctx, query, teamID, teacherID)
	if err != nil {
		return false, fmt.Errorf("remove team member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove team member: %w", err)
	}
	return affected > 0, nil
}
