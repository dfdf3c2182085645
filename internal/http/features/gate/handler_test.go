package gate

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/pkg/access"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func devSessionCookie(t *testing.T, issuedAt time.Time) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	session := &domain.DevSession{Identity: "tester", IssuedAt: issuedAt}
	if err := httputil.SetDevSessionCookie(rec, session, httputil.DefaultCookieConfig()); err != nil {
		t.Fatalf("SetDevSessionCookie: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestCheck_AnonymousRedirectsToLogin(t *testing.T) {
	handler := &Handler{
		logger:   testLogger(),
		resolver: access.NewRoleResolver(hub.TierProduction),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/access/check?path=/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.Check(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status code = %d, want 200", rec.Code)
	}

	var resp CheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Outcome != string(access.OutcomeRedirect) {
		t.Errorf("Outcome = %q, want redirect", resp.Outcome)
	}
	if resp.Target != "/login?next=%2Fdashboard" {
		t.Errorf("Target = %q, want /login?next=%%2Fdashboard", resp.Target)
	}
}

func TestCheck_RelativePathRejected(t *testing.T) {
	handler := &Handler{
		logger:   testLogger(),
		resolver: access.NewRoleResolver(hub.TierProduction),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/access/check?path=dashboard", nil)
	rec := httptest.NewRecorder()

	handler.Check(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", rec.Code)
	}
}

func TestCheck_DevSessionGrantsAccessInDevelopment(t *testing.T) {
	handler := &Handler{
		logger:   testLogger(),
		resolver: access.NewRoleResolver(hub.TierDevelopment),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/access/check?path=/admin/settings", nil)
	req.AddCookie(devSessionCookie(t, time.Now()))
	rec := httptest.NewRecorder()

	handler.Check(rec, req)

	var resp CheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Outcome != string(access.OutcomeAllow) {
		t.Errorf("Outcome = %q, want allow", resp.Outcome)
	}
	if !resp.DevOverride {
		t.Error("DevOverride = false, want true")
	}
}

func TestCheck_DevSessionIgnoredInProduction(t *testing.T) {
	handler := &Handler{
		logger:   testLogger(),
		resolver: access.NewRoleResolver(hub.TierProduction),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/access/check?path=/admin/settings", nil)
	req.AddCookie(devSessionCookie(t, time.Now()))
	rec := httptest.NewRecorder()

	handler.Check(rec, req)

	var resp CheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Outcome != string(access.OutcomeRedirect) {
		t.Errorf("Outcome = %q, want redirect (production must ignore dev sessions)", resp.Outcome)
	}
	if resp.DevOverride {
		t.Error("DevOverride = true in production")
	}
}

func TestCheck_ExpiredDevSessionFallsBack(t *testing.T) {
	handler := &Handler{
		logger:   testLogger(),
		resolver: access.NewRoleResolver(hub.TierDevelopment),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/access/check?path=/admin", nil)
	req.AddCookie(devSessionCookie(t, time.Now().Add(-25*time.Hour)))
	rec := httptest.NewRecorder()

	handler.Check(rec, req)

	var resp CheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Outcome != string(access.OutcomeRedirect) {
		t.Errorf("Outcome = %q, want redirect after dev session expiry", resp.Outcome)
	}
}

func TestDevSession_NotFoundInProduction(t *testing.T) {
	handler := &Handler{
		logger:        testLogger(),
		resolver:      access.NewRoleResolver(hub.TierProduction),
		devAccessCode: "", // production config refuses to set one anyway
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev-session", bytes.NewBufferString(`{"access_code":"whatever"}`))
	rec := httptest.NewRecorder()

	handler.DevSession(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status code = %d, want 404", rec.Code)
	}
}

func TestDevSession_GrantAndDeny(t *testing.T) {
	handler := &Handler{
		logger:        testLogger(),
		resolver:      access.NewRoleResolver(hub.TierDevelopment),
		devAccessCode: "let-me-in",
	}

	// Wrong code
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev-session", bytes.NewBufferString(`{"access_code":"nope"}`))
	rec := httptest.NewRecorder()
	handler.DevSession(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong code: status = %d, want 401", rec.Code)
	}

	// Correct code
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/dev-session", bytes.NewBufferString(`{"access_code":"let-me-in","identity":"alex"}`))
	rec = httptest.NewRecorder()
	handler.DevSession(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("correct code: status = %d, want 201", rec.Code)
	}

	var resp DevSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Identity != "alex" {
		t.Errorf("Identity = %q, want alex", resp.Identity)
	}
	if got := resp.ExpiresAt.Sub(resp.IssuedAt); got != domain.DevSessionMaxAge {
		t.Errorf("session lifetime = %v, want %v", got, domain.DevSessionMaxAge)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "hub_dev_session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("dev session cookie not set")
	}
}

func TestClearDevSession(t *testing.T) {
	handler := &Handler{
		logger:   testLogger(),
		resolver: access.NewRoleResolver(hub.TierDevelopment),
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/auth/dev-session", nil)
	rec := httptest.NewRecorder()
	handler.ClearDevSession(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Status code = %d, want 204", rec.Code)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == "hub_dev_session" && c.MaxAge != -1 {
			t.Errorf("cookie MaxAge = %d, want -1", c.MaxAge)
		}
	}
}
