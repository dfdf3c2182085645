package domain

import "errors"

// Authentication errors
var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrIdentityExists     = errors.New("identity already exists")
	ErrIdentityInactive   = errors.New("identity deactivated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidToken       = errors.New("invalid token")
)

// Tenancy errors
var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrCrossHubConflict   = errors.New("identity already belongs to a different hub")
	ErrHubUnresolved      = errors.New("could not determine identity's home hub")
)

// Validation errors
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password does not meet requirements")
	ErrInvalidRole  = errors.New("invalid role")
)

// Dev override errors
var (
	ErrMalformedDevSession = errors.New("malformed dev session payload")
)

// Verification errors
var (
	ErrVerificationNotFound = errors.New("no pending verification")
	ErrInvalidCode          = errors.New("invalid verification code")
)
