package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDevSession(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "valid payload",
			payload: `{"identity":"dev@percytech.com","issued_at":"2026-01-02T15:04:05Z"}`,
			wantErr: false,
		},
		{
			name:    "not json",
			payload: `{broken`,
			wantErr: true,
		},
		{
			name:    "missing identity",
			payload: `{"issued_at":"2026-01-02T15:04:05Z"}`,
			wantErr: true,
		},
		{
			name:    "missing issued_at",
			payload: `{"identity":"dev@percytech.com"}`,
			wantErr: true,
		},
		{
			name:    "empty payload",
			payload: ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseDevSession([]byte(tt.payload))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDevSession) {
					t.Errorf("err = %v, want ErrMalformedDevSession", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Identity != "dev@percytech.com" {
				t.Errorf("Identity = %q", s.Identity)
			}
		})
	}
}

func TestDevSession_Expired(t *testing.T) {
	now := time.Now()

	fresh := &DevSession{Identity: "x", IssuedAt: now.Add(-time.Hour)}
	if fresh.Expired(now) {
		t.Error("1h-old session reported expired")
	}

	stale := &DevSession{Identity: "x", IssuedAt: now.Add(-25 * time.Hour)}
	if !stale.Expired(now) {
		t.Error("25h-old session reported valid")
	}

	boundary := &DevSession{Identity: "x", IssuedAt: now.Add(-DevSessionMaxAge)}
	if !boundary.Expired(now) {
		t.Error("session exactly at max age must count as expired")
	}
}

func TestDevSession_EncodeRoundTrip(t *testing.T) {
	orig := &DevSession{Identity: "dev@gnymble.com", IssuedAt: time.Now().UTC().Truncate(time.Second)}
	payload, err := orig.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	parsed, err := ParseDevSession(payload)
	if err != nil {
		t.Fatalf("ParseDevSession: %v", err)
	}
	if parsed.Identity != orig.Identity || !parsed.IssuedAt.Equal(orig.IssuedAt) {
		t.Errorf("round trip mismatch: %+v vs %+v", parsed, orig)
	}
}
