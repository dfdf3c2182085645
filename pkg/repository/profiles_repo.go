package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/domain"
)

// ProfilesRepository handles identity profile persistence.
type ProfilesRepository struct {
	db *sql.DB
}

// NewProfilesRepository creates a new profiles repository.
func NewProfilesRepository(db *sql.DB) *ProfilesRepository {
	return &ProfilesRepository{db: db}
}

const profileColumns = `id, email, first_name, last_name, hub_id, role, is_active, onboarding_completed, created_at, updated_at, deleted_at`

func scanProfile(row interface{ Scan(...any) error }) (*domain.Identity, error) {
	var identity domain.Identity
	var role sql.NullString
	err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.FirstName,
		&identity.LastName,
		&identity.HubID,
		&role,
		&identity.IsActive,
		&identity.OnboardingCompleted,
		&identity.CreatedAt,
		&identity.UpdatedAt,
		&identity.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if role.Valid {
		identity.Role = domain.ParseRole(role.String)
	}
	return &identity, nil
}

// Create creates a new identity profile.
func (r *ProfilesRepository) Create(ctx context.Context, identity *domain.Identity) error {
	return r.CreateTx(ctx, r.db, identity)
}

// CreateTx creates a new identity profile within a transaction.
func (r *ProfilesRepository) CreateTx(ctx context.Context, q Querier, identity *domain.Identity) error {
	query := `
		INSERT INTO profiles (id, email, first_name, last_name, hub_id, role, is_active, onboarding_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	var role *string
	if identity.Role != domain.RoleNone {
		s := string(identity.Role)
		role = &s
	}
	_, err := q.ExecContext(ctx, query,
		identity.ID,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.HubID,
		role,
		identity.IsActive,
		identity.OnboardingCompleted,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	return err
}

// GetByID retrieves an identity by ID.
func (r *ProfilesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND deleted_at IS NULL`

	identity, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// GetByEmail retrieves an identity by email.
func (r *ProfilesRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1 AND deleted_at IS NULL`

	identity, err := scanProfile(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// ExistsByEmail checks whether an identity exists with the given email.
func (r *ProfilesRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1 AND deleted_at IS NULL)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}

// Update updates mutable profile fields.
func (r *ProfilesRepository) Update(ctx context.Context, identity *domain.Identity) error {
	query := `
		UPDATE profiles
		SET email = $1, first_name = $2, last_name = $3, onboarding_completed = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.OnboardingCompleted,
		identity.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// UpdateRole sets the identity's stored role.
func (r *ProfilesRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	query := `
		UPDATE profiles
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
		return domain.ErrIdentityNotFound
	}
	return nil
}

// Deactivate soft-deactivates an identity via the is_active flag. The
// profile row survives and can be reactivated by an admin.
func (r *ProfilesRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE profiles
		SET is_active = FALSE, updated_at = NOW()
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
		return domain.ErrIdentityNotFound
	}
	return nil
}

// HardDelete removes the profile row entirely. Credentials and sessions
// cascade via foreign keys.
func (r *ProfilesRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}
