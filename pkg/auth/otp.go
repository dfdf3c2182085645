package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/repository"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Verification codes are 6 digits and stay valid for one period.
	codeDigits = 6
	codePeriod = 300 // seconds
	codeWindow = 1   // allow one adjacent period of clock drift
)

// VerificationConfig holds contact verification configuration.
type VerificationConfig struct {
	Issuer string
}

// VerificationService issues and checks one-time codes proving control
// of a contact (a phone number for SMS hubs, or an email address).
// Delivery is out-of-band; this service only owns code lifecycle.
type VerificationService struct {
	config        VerificationConfig
	verifications *repository.VerificationsRepository
}

// NewVerificationService creates a new verification service.
func NewVerificationService(config VerificationConfig, verifications *repository.VerificationsRepository) *VerificationService {
	return &VerificationService{
		config:        config,
		verifications: verifications,
	}
}

// Start begins verification for a contact and returns the code to
// deliver. Restarting replaces any pending verification.
func (s *VerificationService) Start(ctx context.Context, identityID uuid.UUID, contact string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.config.Issuer,
		AccountName: contact,
		Period:      codePeriod,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return "", err
	}

	v := &repository.Verification{
		IdentityID: identityID,
		Contact:    contact,
		Secret:     key.Secret(),
	}
	if err := s.verifications.Upsert(ctx, v); err != nil {
		return "", err
	}

	return totp.GenerateCodeCustom(key.Secret(), time.Now(), totp.ValidateOpts{
		Period: codePeriod,
		Skew:   codeWindow,
		Digits: otp.DigitsSix,
	})
}

// Check validates a submitted code against the pending verification and
// marks the contact verified on success.
func (s *VerificationService) Check(ctx context.Context, identityID uuid.UUID, code string) error {
	v, err := s.verifications.GetPending(ctx, identityID)
	if err != nil {
		return err
	}

	valid, err := totp.ValidateCustom(code, v.Secret, time.Now(), totp.ValidateOpts{
		Period:    codePeriod,
		Skew:      codeWindow,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !valid {
		return domain.ErrInvalidCode
	}

	return s.verifications.MarkVerified(ctx, identityID)
}
