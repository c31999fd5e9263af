package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/studybuddy/studybuddy-api/internal/api/shared"
	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/platform/logger"
	"github.com/studybuddy/studybuddy-api/internal/redact"
	"github.com/studybuddy/studybuddy-api/internal/service/auth"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

// Browser redirect targets. API clients get JSON envelopes instead.
const (
	tasksPath = "/tasks"
	loginPath = "/auth/login"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	secureCookie     bool
	timeFunc         func() time.Time // Injectable for testing
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// secureCookie marks session cookies Secure and should be true wherever
// the API is served over TLS.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		secureCookie:     secureCookie,
		timeFunc:         time.Now,
	}
}

// Register handles the /auth/register endpoint. A successful registration
// logs the new user in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) || errors.Is(err, store.ErrUsernameExists) {
			HandleAPIError(w, r, err, "")
			return
		}
		log.Error("failed to create user", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.establishSession(w, r, user, http.StatusCreated)
}

// Login handles the /auth/login endpoint. The identifier may be an email
// address or a username. All credential failures produce the same
// response so the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmailOrUsername(r.Context(), req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
			return
		}
		log.Error("failed to look up user", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
		return
	}

	if !user.IsActive {
		HandleAPIError(w, r, auth.ErrAccountDisabled, "")
		return
	}

	// Best-effort; a failed timestamp write must not block the login.
	if err := h.userStore.UpdateLastLogin(r.Context(), user.ID, h.timeFunc().UTC()); err != nil {
		log.Warn("failed to record last login",
			"error", redact.Error(err),
			"user_id", user.ID)
	}

	h.establishSession(w, r, user, http.StatusOK)
}

// Logout handles the /auth/logout endpoint. The JWT itself stays valid
// until expiry; logout only removes the cookie copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	shared.ClearSessionCookie(w, h.secureCookie)

	if !shared.WantsJSON(r) {
		shared.RespondWithRedirect(w, r, loginPath, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Logged out",
	})
}

// establishSession issues a session token, sets the session cookie and
// writes the success response for both register and login.
func (h *AuthHandler) establishSession(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
	status int,
) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate token",
			"error", redact.Error(err),
			"user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	lifetime := h.jwtService.TokenLifetime()
	shared.SetSessionCookie(w, token, lifetime, h.secureCookie)

	if !shared.WantsJSON(r) {
		shared.RespondWithRedirect(w, r, tasksPath, "")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		Success:   true,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: h.timeFunc().UTC().Add(lifetime).Format(time.RFC3339),
	})
}
