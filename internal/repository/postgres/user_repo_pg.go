package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, password_hash, role, is_active, created_at, last_login_at`

func (r *UserRepository) Create(ctx context.Context, email, fullName, role string, passwordHash []byte) (*domain.StaffUser, error) {
	const query = `
		INSERT INTO staff_account (email, full_name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns + `
	`
	var user domain.StaffUser
	if err := r.db.GetContext(ctx, &user, query, email, fullName, passwordHash, role); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpsertGoogleUser(ctx context.Context, email string, fullName *string) (*domain.StaffUser, error) {
	const query = `
		INSERT INTO staff_account (email, full_name, password_hash, role)
		VALUES ($1, COALESCE($2, ''), ''::bytea, 'staff')
		ON CONFLICT (email) DO UPDATE
		SET full_name = COALESCE(NULLIF(EXCLUDED.full_name, ''), staff_account.full_name)
		RETURNING ` + userColumns + `
	`
	var user domain.StaffUser
	if err := r.db.GetContext(ctx, &user, query, email, fullName); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM staff_account
		WHERE email = $1
	`
	var user domain.StaffUser
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.StaffUser, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM staff_account
		WHERE id = $1
	`
	var user domain.StaffUser
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `
		UPDATE staff_account
		SET last_login_at = $2
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

var _ ports.UserRepository = (*UserRepository)(nil)
