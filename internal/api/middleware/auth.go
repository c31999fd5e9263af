package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/studybuddy/studybuddy-api/internal/api/shared"
	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/redact"
	"github.com/studybuddy/studybuddy-api/internal/service/auth"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

// loginPath is where browser clients are sent when their session is
// missing or no longer valid.
const loginPath = "/auth/login"

// AuthMiddleware guards routes behind a valid session. The session token
// is read from the session cookie first, then from a Bearer Authorization
// header. On success the authenticated user's ID and record are added to
// the request context.
type AuthMiddleware struct {
	jwtService   auth.JWTService
	userStore    store.UserStore
	secureCookie bool
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore, secureCookie bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		userStore:    userStore,
		secureCookie: secureCookie,
	}
}

// Authenticate validates the session token and loads the user record.
// Requests without a valid session get a 401 JSON error, or a redirect to
// the login page with the stale cookie cleared for browser clients.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			m.reject(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				m.reject(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingToken):
				m.reject(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				m.reject(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		// A valid token for a deleted or deactivated user is still not a
		// session.
		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				m.reject(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			slog.Error("failed to load session user",
				"error", redact.Error(err),
				"user_id", claims.UserID)
			m.reject(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}
		if !user.IsActive {
			m.reject(w, r, http.StatusUnauthorized, "Account is disabled")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		ctx = context.WithValue(ctx, shared.UserContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// reject ends the request. The session cookie is cleared for every
// client so the next attempt starts clean; browser clients are
// additionally bounced to the login page.
func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, status int, message string) {
	shared.ClearSessionCookie(w, m.secureCookie)
	if !shared.WantsJSON(r) {
		shared.RespondWithRedirect(w, r, loginPath, "")
		return
	}
	shared.RespondWithError(w, r, status, message)
}

// extractToken pulls the session token from the request, preferring the
// session cookie over the Authorization header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(shared.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}

// GetUser extracts the authenticated user from the request context.
func GetUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	return user, ok
}
