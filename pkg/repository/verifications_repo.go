package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/domain"
)

// Verification is a pending contact (phone or email) verification with
// the TOTP secret its codes are derived from.
type Verification struct {
	IdentityID uuid.UUID
	Contact    string
	Secret     string
	CreatedAt  sql.NullTime
	VerifiedAt sql.NullTime
}

// VerificationsRepository handles pending contact verifications.
type VerificationsRepository struct {
	db *sql.DB
}

// NewVerificationsRepository creates a new verifications repository.
func NewVerificationsRepository(db *sql.DB) *VerificationsRepository {
	return &VerificationsRepository{db: db}
}

// Upsert stores or replaces the pending verification for an identity.
// Restarting verification invalidates any previous code.
func (r *VerificationsRepository) Upsert(ctx context.Context, v *Verification) error {
	query := `
		INSERT INTO verifications (identity_id, contact, secret, created_at, verified_at)
		VALUES ($1, $2, $3, NOW(), NULL)
		ON CONFLICT (identity_id)
		DO UPDATE SET contact = $2, secret = $3, created_at = NOW(), verified_at = NULL
	`
	_, err := r.db.ExecContext(ctx, query, v.IdentityID, v.Contact, v.Secret)
	return err
}

// GetPending retrieves the pending (unverified) verification for an identity.
func (r *VerificationsRepository) GetPending(ctx context.Context, identityID uuid.UUID) (*Verification, error) {
	query := `
		SELECT identity_id, contact, secret, created_at, verified_at
		FROM verifications
		WHERE identity_id = $1 AND verified_at IS NULL
	`
	var v Verification
	err := r.db.QueryRowContext(ctx, query, identityID).Scan(
		&v.IdentityID, &v.Contact, &v.Secret, &v.CreatedAt, &v.VerifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkVerified records a successful verification.
func (r *VerificationsRepository) MarkVerified(ctx context.Context, identityID uuid.UUID) error {
	query := `
		UPDATE verifications
		SET verified_at = NOW()
		WHERE identity_id = $1 AND verified_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, identityID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrVerificationNotFound
	}
	return nil
}
