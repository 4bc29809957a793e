package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

type ClientRepository struct {
	db *sqlx.DB
}

func NewClientRepo(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, reference_code, name, email, phone, company, home_city, preferred_budget, travel_style, dietary_requirements, notes, tags, created_by_id, is_deleted, created_at, updated_at`

// Create inserts the client and derives its reference code from the assigned
// id in the same statement, so codes stay unique without a second sequence.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	const query = `
		WITH inserted AS (
			INSERT INTO client (reference_code, name, email, phone, company, home_city, preferred_budget, travel_style, dietary_requirements, notes, tags, created_by_id)
			VALUES ('', $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		)
		UPDATE client
		SET reference_code = 'CLT-' || LPAD(inserted.id::text, 3, '0')
		FROM inserted
		WHERE client.id = inserted.id
		RETURNING ` + clientColumns + `
	`
	var created domain.Client
	err := r.db.GetContext(ctx, &created, query,
		client.Name, client.Email, client.Phone, client.Company,
		client.HomeCity, client.PreferredBudget, client.TravelStyle,
		client.DietaryRequirements, client.Notes, client.Tags, client.CreatedByID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	const query = `
		UPDATE client
		SET name = $2,
		    email = $3,
		    phone = $4,
		    company = $5,
		    home_city = $6,
		    preferred_budget = $7,
		    travel_style = $8,
		    dietary_requirements = $9,
		    notes = $10,
		    tags = $11,
		    updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + clientColumns + `
	`
	var updated domain.Client
	err := r.db.GetContext(ctx, &updated, query,
		client.ID, client.Name, client.Email, client.Phone, client.Company,
		client.HomeCity, client.PreferredBudget, client.TravelStyle,
		client.DietaryRequirements, client.Notes, client.Tags)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	const query = `
		SELECT ` + clientColumns + `
		FROM client
		WHERE id = $1 AND is_deleted = FALSE
	`
	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.Client, error) {
	const query = `
		SELECT ` + clientColumns + `
		FROM client
		WHERE is_deleted = FALSE
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR reference_code ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryxContext(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var client domain.Client
		if err := rows.StructScan(&client); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE client
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ports.ClientRepository = (*ClientRepository)(nil)
