// Package session provides session-token utilities for cookie-based identity.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "sessionId"

// NewToken generates a fresh opaque session token.
func NewToken() string {
	return uuid.New().String()
}

// TokenFromRequest extracts the session token from the request cookie.
// Returns an empty string if the cookie is absent.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie writes the session cookie on the response.
// Persistent cookie, path "/", expiring after ttl.
func SetCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
