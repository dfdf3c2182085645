package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/domain"
)

// MembershipsRepository handles membership persistence.
type MembershipsRepository struct {
	db *sql.DB
}

// NewMembershipsRepository creates a new memberships repository.
func NewMembershipsRepository(db *sql.DB) *MembershipsRepository {
	return &MembershipsRepository{db: db}
}

// MembershipWithCompany combines membership and company details for the
// login and gating flows.
type MembershipWithCompany struct {
	Membership domain.Membership
	Company    domain.Company
}

// Create creates a new membership.
func (r *MembershipsRepository) Create(ctx context.Context, membership *domain.Membership) error {
	return r.CreateTx(ctx, r.db, membership)
}

// CreateTx creates a new membership within a transaction.
func (r *MembershipsRepository) CreateTx(ctx context.Context, q Querier, membership *domain.Membership) error {
	query := `
		INSERT INTO memberships (id, company_id, identity_id, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.ExecContext(ctx, query,
		membership.ID,
		membership.CompanyID,
		membership.IdentityID,
		string(membership.Role),
		membership.Status,
		membership.CreatedAt,
		membership.UpdatedAt,
	)
	return err
}

// GetByID retrieves a membership by ID.
func (r *MembershipsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT id, company_id, identity_id, role, status, created_at, updated_at, deleted_at
		FROM memberships
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByIdentityAndCompany retrieves a membership for an identity in a company.
func (r *MembershipsRepository) GetByIdentityAndCompany(ctx context.Context, identityID, companyID uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT id, company_id, identity_id, role, status, created_at, updated_at, deleted_at
		FROM memberships
		WHERE identity_id = $1 AND company_id = $2 AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, identityID, companyID))
}

func (r *MembershipsRepository) scanOne(row *sql.Row) (*domain.Membership, error) {
	var membership domain.Membership
	var role string
	err := row.Scan(
		&membership.ID,
		&membership.CompanyID,
		&membership.IdentityID,
		&role,
		&membership.Status,
		&membership.CreatedAt,
		&membership.UpdatedAt,
		&membership.DeletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	membership.Role = domain.ParseRole(role)
	return &membership, nil
}

// GetActiveWithCompanies retrieves active memberships with company
// details for an identity, oldest first.
func (r *MembershipsRepository) GetActiveWithCompanies(ctx context.Context, identityID uuid.UUID) ([]*MembershipWithCompany, error) {
	query := `
		SELECT
			m.id, m.company_id, m.identity_id, m.role, m.status, m.created_at, m.updated_at, m.deleted_at,
			c.id, c.hub_id, c.name, c.payment_completed, c.created_at, c.updated_at, c.deleted_at
		FROM memberships m
		INNER JOIN companies c ON m.company_id = c.id
		WHERE m.identity_id = $1
			AND m.status = 'active'
			AND m.deleted_at IS NULL
			AND c.deleted_at IS NULL
		ORDER BY m.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*MembershipWithCompany
	for rows.Next() {
		var result MembershipWithCompany
		var role string
		err := rows.Scan(
			&result.Membership.ID,
			&result.Membership.CompanyID,
			&result.Membership.IdentityID,
			&role,
			&result.Membership.Status,
			&result.Membership.CreatedAt,
			&result.Membership.UpdatedAt,
			&result.Membership.DeletedAt,
			&result.Company.ID,
			&result.Company.HubID,
			&result.Company.Name,
			&result.Company.PaymentCompleted,
			&result.Company.CreatedAt,
			&result.Company.UpdatedAt,
			&result.Company.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		result.Membership.Role = domain.ParseRole(role)
		results = append(results, &result)
	}

	return results, rows.Err()
}

// UpdateRole updates the role held by a membership.
func (r *MembershipsRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	query := `
		UPDATE memberships
		SET role = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, string(role), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

// UpdateStatus updates the status of a membership.
func (r *MembershipsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MembershipStatus) error {
	query := `
		UPDATE memberships
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

// SoftDelete soft deletes a membership (offboarding).
func (r *MembershipsRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE memberships
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
		return domain.ErrMembershipNotFound
	}
	return nil
}
