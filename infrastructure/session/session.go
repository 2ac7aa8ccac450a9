package session

import (
	"net/http"
	"time"
)

const CookieName = "X-Enrollment-Session"

// SessionCookie builds the enrollment cookie; a negative maxAge clears it.
func SessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// MaxAge converts a session TTL to cookie seconds.
func MaxAge(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int(ttl / time.Second)
}
