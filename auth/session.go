// Package auth, as part of the authentication module.
// This file, `session.go`, implements the session manager. A session is the
// binding between one browser and one username: established at login, carried
// as a signed HS256 token in an HttpOnly cookie, and cleared at logout. The
// signature is what makes the token server-side-trusted; the browser can read
// nothing and forge nothing.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/feedbackboard-go/config"
)

// SessionClaims embeds jwt.RegisteredClaims and adds the bound username.
// RegisteredClaims contributes the standard `exp`, `iat`, and `nbf` handling.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates session cookies.
// Its two states per browser are Anonymous (no valid cookie) and
// Authenticated(username); Establish moves to the latter, Clear back to the
// former, and expiry does the same without any server-side bookkeeping.
type SessionManager struct {
	cfg config.SessionConfig
}

// NewSessionManager creates a SessionManager from the session configuration.
func NewSessionManager(cfg config.SessionConfig) *SessionManager {
	return &SessionManager{cfg: cfg}
}

// Establish binds the given username to the requesting browser by setting the
// session cookie. Called after a successful login or registration.
func (sm *SessionManager) Establish(w http.ResponseWriter, username string) error {
	token, err := sm.issueToken(username)
	if err != nil {
		return fmt.Errorf("failed to issue session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:  sm.cfg.CookieName,
		Value: token,
		Path:  "/",
		// MaxAge matches the token's own expiry; whichever the browser honors,
		// the signed `exp` claim is authoritative.
		MaxAge: int(sm.cfg.Duration.Seconds()),
		// HttpOnly keeps the token away from page scripts; SameSite=Lax keeps
		// it off cross-site POSTs while still following normal navigation.
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current returns the username bound to the request's session, or false when
// the request carries no cookie, an expired token, or a token that fails
// signature validation. All three look identical to the caller: anonymous.
func (sm *SessionManager) Current(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sm.cfg.CookieName)
	if err != nil {
		return "", false
	}

	username, err := sm.parseToken(cookie.Value)
	if err != nil {
		return "", false
	}
	return username, true
}

// Clear unbinds the session by expiring the cookie. The token itself remains
// valid until its `exp`, but the browser no longer presents it; given the
// short session duration there is no revocation list.
func (sm *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// issueToken signs a session token for the username.
func (sm *SessionManager) issueToken(username string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.cfg.Duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(sm.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// parseToken validates the signature and registered claims of a session token
// and returns the bound username.
func (sm *SessionManager) parseToken(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Accept only HMAC signing; anything else means a forged or foreign token.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(sm.cfg.Secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("token is invalid")
	}
	if claims.Username == "" {
		return "", errors.New("token has no username claim")
	}
	return claims.Username, nil
}
