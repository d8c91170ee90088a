package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/akademiklabs/inspection-api/internal/models"
)

// AdminRepository manages persistence for administrators.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail fetches an administrator by email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	const query = `SELECT id, email, first_name, last_name, password_hash FROM administrators WHERE LOWER(email) = LOWER($1)`
	var admin models.Administrator
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, err
	}
	return &admin, nil
}
