package admin

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requestWithURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestDeactivateIdentity_InvalidID(t *testing.T) {
	handler := &Handler{logger: testLogger()}

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/identities/not-a-uuid/deactivate", nil)
	req = requestWithURLParam(req, "id", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.DeactivateIdentity(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", rec.Code)
	}
}

func TestDeleteIdentity_InvalidID(t *testing.T) {
	handler := &Handler{logger: testLogger()}

	req := httptest.NewRequest(http.MethodDelete, "/v1/admin/identities/xyz", nil)
	req = requestWithURLParam(req, "id", "xyz")
	rec := httptest.NewRecorder()

	handler.DeleteIdentity(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", rec.Code)
	}
}

func TestChangeMembershipRole_Validation(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		expectedStatus int
	}{
		{
			name:           "invalid membership id",
			id:             "nope",
			body:           `{"role":"admin"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			id:             "7b7e2f5e-9f3a-4a7d-8f1e-111111111111",
			body:           `{invalid}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown role",
			id:             "7b7e2f5e-9f3a-4a7d-8f1e-111111111111",
			body:           `{"role":"wizard"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "superadmin not grantable",
			id:             "7b7e2f5e-9f3a-4a7d-8f1e-111111111111",
			body:           `{"role":"superadmin"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	handler := &Handler{logger: testLogger()}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/v1/admin/memberships/"+tt.id+"/role", bytes.NewBufferString(tt.body))
			req = requestWithURLParam(req, "id", tt.id)
			rec := httptest.NewRecorder()

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Validation should have failed before reaching the repository")
				}
			}()

			handler.ChangeMembershipRole(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status code = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}
