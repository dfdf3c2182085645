package hubs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/percytech/hubgate/pkg/hub"
)

func TestList(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/hubs", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status code = %d, want 200", rec.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Hubs) != len(hub.All()) {
		t.Errorf("got %d hubs, want %d", len(resp.Hubs), len(hub.All()))
	}
	if resp.Default != hub.Gnymble {
		t.Errorf("Default = %q, want %q", resp.Default, hub.Gnymble)
	}
	if resp.Hubs[0].ID != hub.Gnymble {
		t.Errorf("first hub = %q, want %q (resolution order)", resp.Hubs[0].ID, hub.Gnymble)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		host string
		want hub.ID
	}{
		{"production domain", "app.percymd.com", hub.PercyMD},
		{"staging domain", "staging.percytext.com", hub.PercyText},
		{"with port", "percytech.localhost:3000", hub.PercyTech},
		{"unknown host falls back to default", "example.com", hub.Gnymble},
	}

	handler := NewHandler(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/hubs/resolve?host="+tt.host, nil)
			rec := httptest.NewRecorder()

			handler.Resolve(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("Status code = %d, want 200", rec.Code)
			}

			var resp ResolveResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Hub.ID != tt.want {
				t.Errorf("resolved %q to %q, want %q", tt.host, resp.Hub.ID, tt.want)
			}
		})
	}
}

func TestResolve_DefaultsToRequestHost(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/hubs/resolve", nil)
	req.Host = "app.percytech.com"
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	var resp ResolveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Hub.ID != hub.PercyTech {
		t.Errorf("resolved request host to %q, want %q", resp.Hub.ID, hub.PercyTech)
	}
	if resp.Host != "app.percytech.com" {
		t.Errorf("Host = %q, want app.percytech.com", resp.Host)
	}
}
