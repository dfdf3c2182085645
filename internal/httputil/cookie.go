package httputil

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/percytech/hubgate/pkg/domain"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
	devSessionCookie   = "hub_dev_session"
)

// CookieConfig holds cookie configuration.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// DefaultCookieConfig returns default cookie configuration.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Path:     "/",
		Secure:   false, // set true behind HTTPS
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAuthCookies sets HttpOnly cookies for access and refresh tokens.
func SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// ClearAuthCookies clears auth cookies.
func ClearAuthCookies(w http.ResponseWriter, cfg CookieConfig) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     cfg.Path,
			Domain:   cfg.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: cfg.SameSite,
		})
	}
}

// IsMobileClient reports whether the request comes from a mobile client
// that handles tokens in the body instead of cookies.
func IsMobileClient(r *http.Request) bool {
	return r.Header.Get("X-Client-Type") == "mobile"
}

// GetAccessTokenFromCookie reads the access token cookie.
func GetAccessTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// GetRefreshTokenFromCookie reads the refresh token cookie.
func GetRefreshTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetDevSessionCookie stores a dev session record client-side. The
// record is plain base64 JSON: it is a development convenience, and the
// server re-checks the environment tier before honoring it.
func SetDevSessionCookie(w http.ResponseWriter, session *domain.DevSession, cfg CookieConfig) error {
	payload, err := session.Encode()
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     devSessionCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(domain.DevSessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
	return nil
}

// GetDevSessionFromCookie reads and parses the dev session cookie. A
// malformed or expired payload is discarded: the cookie is cleared and
// (nil, false) is returned, never an error.
func GetDevSessionFromCookie(w http.ResponseWriter, r *http.Request, cfg CookieConfig) (*domain.DevSession, bool) {
	cookie, err := r.Cookie(devSessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		ClearDevSessionCookie(w, cfg)
		return nil, false
	}

	session, err := domain.ParseDevSession(payload)
	if err != nil {
		ClearDevSessionCookie(w, cfg)
		return nil, false
	}

	if session.Expired(time.Now()) {
		ClearDevSessionCookie(w, cfg)
		return nil, false
	}

	return session, true
}

// ClearDevSessionCookie clears the dev session cookie.
func ClearDevSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     devSessionCookie,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}
