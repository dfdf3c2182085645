package httputil

import (
	"net/http/httptest"
	"testing"

	"github.com/percytech/hubgate/pkg/hub"
)

func TestRequestHub(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		forwarded string
		want      hub.ID
	}{
		{"plain host", "app.percymd.com", "", hub.PercyMD},
		{"forwarded host wins", "internal.lb.local", "app.percytext.com", hub.PercyText},
		{"host with port", "gnymble.localhost:3000", "", hub.Gnymble},
		{"unknown host defaults", "nonsense.example", "", hub.Gnymble},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.Host = tt.host
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-Host", tt.forwarded)
			}

			if got := RequestHub(r); got.ID != tt.want {
				t.Errorf("RequestHub() = %q, want %q", got.ID, tt.want)
			}
		})
	}
}
