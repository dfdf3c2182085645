package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
	"github.com/percytech/hubgate/pkg/repository"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// PasswordService handles password-based signup and authentication.
type PasswordService struct {
	db          *sql.DB
	profiles    *repository.ProfilesRepository
	creds       *repository.CredentialsRepository
	companies   *repository.CompaniesRepository
	memberships *repository.MembershipsRepository
	policy      *PasswordPolicy
}

// NewPasswordService creates a new password service.
func NewPasswordService(
	db *sql.DB,
	profiles *repository.ProfilesRepository,
	creds *repository.CredentialsRepository,
	companies *repository.CompaniesRepository,
	memberships *repository.MembershipsRepository,
	policy *PasswordPolicy,
) *PasswordService {
	return &PasswordService{
		db:          db,
		profiles:    profiles,
		creds:       creds,
		companies:   companies,
		memberships: memberships,
		policy:      policy,
	}
}

// SignupParams holds the inputs for creating a new account.
type SignupParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	CompanyName string
	HubID       hub.ID
}

// SignupResult is what a completed signup produces.
type SignupResult struct {
	Identity   *domain.Identity
	Company    *domain.Company
	Membership *domain.Membership
}

// Signup creates an identity, its company, and an owner membership in
// one transaction. Callers run the cross-tenant guard before this; the
// email uniqueness check here is the last line of defense.
func (s *PasswordService) Signup(ctx context.Context, params SignupParams) (*SignupResult, error) {
	if err := ValidateEmail(params.Email); err != nil {
		return nil, err
	}
	email := NormalizeEmail(params.Email)

	if s.policy != nil {
		if err := s.policy.ValidatePassword(params.Password); err != nil {
			return nil, err
		}
	}

	exists, err := s.profiles.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrIdentityExists
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	firstName := SanitizeName(params.FirstName)
	lastName := SanitizeName(params.LastName)
	companyName := SanitizeName(params.CompanyName)
	if companyName == "" {
		companyName = email + "'s account"
	}

	identity := &domain.Identity{
		ID:        uuid.New(),
		Email:     email,
		HubID:     params.HubID,
		Role:      domain.RoleOwner,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if firstName != "" {
		identity.FirstName = &firstName
	}
	if lastName != "" {
		identity.LastName = &lastName
	}

	company := &domain.Company{
		ID:        uuid.New(),
		HubID:     params.HubID,
		Name:      companyName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	membership := &domain.Membership{
		ID:         uuid.New(),
		CompanyID:  company.ID,
		IdentityID: identity.ID,
		Role:       domain.RoleOwner,
		Status:     domain.MembershipStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	cred := &domain.IdentityCredential{
		IdentityID:        identity.ID,
		PasswordHash:      hash,
		PasswordUpdatedAt: now,
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.profiles.CreateTx(ctx, tx, identity); err != nil {
			return err
		}
		if err := s.creds.CreateTx(ctx, tx, cred); err != nil {
			return err
		}
		if err := s.companies.CreateTx(ctx, tx, company); err != nil {
			return err
		}
		return s.memberships.CreateTx(ctx, tx, membership)
	})
	if err != nil {
		return nil, err
	}

	return &SignupResult{Identity: identity, Company: company, Membership: membership}, nil
}

// Authenticate verifies email and password, returning the identity on
// success. Credentials are hub-agnostic: the shared credential store
// serves every hub, and hub placement is the guard's concern.
func (s *PasswordService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := s.profiles.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !identity.IsActive {
		return nil, domain.ErrIdentityInactive
	}

	cred, err := s.creds.GetByIdentityID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return identity, nil
}

// ChangePassword replaces an identity's password.
func (s *PasswordService) ChangePassword(ctx context.Context, identityID uuid.UUID, newPassword string) error {
	if s.policy != nil {
		if err := s.policy.ValidatePassword(newPassword); err != nil {
			return err
		}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.creds.Update(ctx, &domain.IdentityCredential{
		IdentityID:   identityID,
		PasswordHash: hash,
	})
}

// HashPassword hashes a password using Argon2id.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encoded as: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword verifies a password against an Argon2id hash.
func VerifyPassword(password, encodedHash string) bool {
	hash, salt, time, memory, threads, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, computed) == 1
}

func decodeArgon2Hash(encoded string) (hash, salt []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, fmt.Errorf("invalid argon2 hash format")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, err
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, err
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, err
	}

	return hash, salt, time, memory, threads, nil
}
