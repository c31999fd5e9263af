package shared

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the JWT session token for
// browser clients. API clients may instead send the token as a Bearer
// Authorization header.
const SessionCookieName = "token"

// SetSessionCookie attaches the session token to the response. The cookie
// is HttpOnly and SameSite=Strict; Secure is enabled in production where
// the API is served over TLS.
func SetSessionCookie(w http.ResponseWriter, token string, lifetime time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
