package handler

import (
	"net/http"
	"time"

	"github.com/chirp/social-api/internal/api/middleware"
)

// sessionCookie builds the HttpOnly cookie carrying a session token.
func sessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// expiredSessionCookie overwrites the session cookie with an immediately
// expiring empty one (Max-Age=0 on the wire).
func expiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
