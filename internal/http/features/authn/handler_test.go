package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/access"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProfiles backs the cross-tenant guard in tests.
type stubProfiles struct {
	identity *domain.Identity
	err      error
}

func (s *stubProfiles) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "invalid json",
			body:           `{invalid}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing email",
			body:           `{"password":"Str0ngPassword!","company_name":"Acme"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed email",
			body:           `{"email":"not-an-email","password":"Str0ngPassword!","company_name":"Acme"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	handler := &Handler{
		logger: testLogger(),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewBufferString(tt.body))
			req.Host = "app.gnymble.com"
			rec := httptest.NewRecorder()

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Validation should have failed before reaching service")
				}
			}()

			handler.Signup(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status code = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}

func TestSignup_CrossHubConflictRefused(t *testing.T) {
	existing := &domain.Identity{
		ID:       uuid.New(),
		Email:    "owner@cigarlounge.com",
		HubID:    hub.PercyMD,
		Role:     domain.RoleOwner,
		IsActive: true,
	}

	handler := &Handler{
		logger: testLogger(),
		guard:  access.NewCrossTenantGuard(&stubProfiles{identity: existing}),
	}

	body := `{"email":"owner@cigarlounge.com","password":"Str0ngPassword!","company_name":"Lounge"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewBufferString(body))
	req.Host = "app.gnymble.com" // different hub than the existing account
	rec := httptest.NewRecorder()

	handler.Signup(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Status code = %d, want 409", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "this email is already registered with another service. please sign in there instead" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestSignup_SameHubDuplicateRefused(t *testing.T) {
	existing := &domain.Identity{
		ID:       uuid.New(),
		Email:    "owner@cigarlounge.com",
		HubID:    hub.Gnymble,
		Role:     domain.RoleOwner,
		IsActive: true,
	}

	handler := &Handler{
		logger: testLogger(),
		guard:  access.NewCrossTenantGuard(&stubProfiles{identity: existing}),
	}

	body := `{"email":"owner@cigarlounge.com","password":"Str0ngPassword!","company_name":"Lounge"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewBufferString(body))
	req.Host = "app.gnymble.com"
	rec := httptest.NewRecorder()

	handler.Signup(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Status code = %d, want 409", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "an account with this email already exists" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestSignup_GuardFailureFailsClosed(t *testing.T) {
	handler := &Handler{
		logger: testLogger(),
		guard:  access.NewCrossTenantGuard(&stubProfiles{err: context.DeadlineExceeded}),
	}

	body := `{"email":"owner@cigarlounge.com","password":"Str0ngPassword!","company_name":"Lounge"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewBufferString(body))
	req.Host = "app.gnymble.com"
	rec := httptest.NewRecorder()

	handler.Signup(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status code = %d, want 503 (fail closed on lookup errors)", rec.Code)
	}
}

func TestLogin_Validation(t *testing.T) {
	handler := &Handler{
		logger: testLogger(),
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString(`{invalid}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", rec.Code)
	}
}

func TestIdentityResponse_Shape(t *testing.T) {
	first := "Ada"
	identity := &domain.Identity{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		FirstName: &first,
		HubID:     hub.PercyTech,
		Role:      domain.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	resp := identityResponse(identity)
	if resp.ID != identity.ID.String() {
		t.Errorf("ID = %q, want %q", resp.ID, identity.ID)
	}
	if resp.HubID != "percytech" {
		t.Errorf("HubID = %q, want percytech", resp.HubID)
	}
	if resp.Role != "admin" {
		t.Errorf("Role = %q, want admin", resp.Role)
	}
}
