package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PHRJr/BuritisProject/pkg/auth"
	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/enums"
)

// Cookies writes and reads the signed session cookie.
type Cookies struct {
	cfg    config.SessionConfig
	secure bool
}

// NewCookies builds the cookie codec; secure marks cookies HTTPS-only.
func NewCookies(cfg config.SessionConfig, secure bool) (*Cookies, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.CookieName == "" {
		return nil, fmt.Errorf("session cookie name is required")
	}
	return &Cookies{cfg: cfg, secure: secure}, nil
}

// Write sets the cookie that binds the browser to sessionID.
func (c *Cookies) Write(w http.ResponseWriter, now time.Time, sessionID string, role enums.Role) error {
	token, err := auth.MintSessionToken(c.cfg, now, auth.SessionTokenPayload{SessionID: sessionID, Role: role})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.cfg.TTL.Seconds()),
		Expires:  now.Add(c.cfg.TTL),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cookie in the browser.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID extracts and verifies the session id carried by the request cookie.
func (c *Cookies) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.cfg.CookieName)
	if err != nil {
		return "", ErrSessionNotFound
	}
	claims, err := auth.ParseSessionToken(c.cfg, cookie.Value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return claims.ID, nil
}
