package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

// CompaniesRepository handles company persistence.
type CompaniesRepository struct {
	db *sql.DB
}

// NewCompaniesRepository creates a new companies repository.
func NewCompaniesRepository(db *sql.DB) *CompaniesRepository {
	return &CompaniesRepository{db: db}
}

// Create creates a new company.
func (r *CompaniesRepository) Create(ctx context.Context, company *domain.Company) error {
	return r.CreateTx(ctx, r.db, company)
}

// CreateTx creates a new company within a transaction.
func (r *CompaniesRepository) CreateTx(ctx context.Context, q Querier, company *domain.Company) error {
	query := `
		INSERT INTO companies (id, hub_id, name, payment_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		company.ID,
		company.HubID,
		company.Name,
		company.PaymentCompleted,
		company.CreatedAt,
		company.UpdatedAt,
	)
	return err
}

// GetByID retrieves a company by ID.
func (r *CompaniesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT id, hub_id, name, payment_completed, created_at, updated_at, deleted_at
		FROM companies
		WHERE id = $1 AND deleted_at IS NULL
	`

	var company domain.Company
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&company.ID,
		&company.HubID,
		&company.Name,
		&company.PaymentCompleted,
		&company.CreatedAt,
		&company.UpdatedAt,
		&company.DeletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByHub retrieves all companies belonging to a hub.
func (r *CompaniesRepository) GetByHub(ctx context.Context, hubID hub.ID) ([]*domain.Company, error) {
	query := `
		SELECT id, hub_id, name, payment_completed, created_at, updated_at, deleted_at
		FROM companies
		WHERE hub_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, hubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		var company domain.Company
		err := rows.Scan(
			&company.ID,
			&company.HubID,
			&company.Name,
			&company.PaymentCompleted,
			&company.CreatedAt,
			&company.UpdatedAt,
			&company.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		companies = append(companies, &company)
	}

	return companies, rows.Err()
}

// SetPaymentCompleted flips the company's payment flag. Called by the
// payment webhook once the subscription checkout settles.
func (r *CompaniesRepository) SetPaymentCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	query := `
		UPDATE companies
		SET payment_completed = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, completed, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// SoftDelete soft deletes a company.
func (r *CompaniesRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE companies
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}
