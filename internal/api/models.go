package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/studybuddy/studybuddy-api/internal/domain"
)

// Common request/response structures.
//
// Success responses share a {success, ...} envelope; error responses use
// shared.ErrorResponse with the same success flag set to false.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
// Identifier is the user's email address or username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
// The session token also travels in the session cookie; it is included in
// the body for API clients that prefer the Authorization header.
type AuthResponse struct {
	Success  bool      `json:"success"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Token    string    `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the session token expires
	ExpiresAt string `json:"expires_at"`
}

// MessageResponse defines a minimal success response with no payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title        string    `json:"title"         validate:"required,max=200"`
	Description  string    `json:"description"   validate:"max=2000"`
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
}

// UpdateTaskRequest defines the payload for a full task edit. The
// submitted status is advisory: it runs through the same derivation as
// every other status transition, so a completed submission sticks but a
// pending one on a past schedule still lands as missed.
type UpdateTaskRequest struct {
	Title        string    `json:"title"         validate:"required,max=200"`
	Description  string    `json:"description"   validate:"max=2000"`
	Status       string    `json:"status"        validate:"required,oneof=pending completed missed"`
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
}

// UpdateStatusRequest defines the payload for an explicit status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed missed"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Success bool         `json:"success"`
	Task    *domain.Task `json:"task"`
}

// TaskListResponse wraps a task collection.
type TaskListResponse struct {
	Success bool           `json:"success"`
	Tasks   []*domain.Task `json:"tasks"`
}

// CalendarResponse maps YYYY-MM-DD dates to day severity colors.
// Days without tasks are absent.
type CalendarResponse struct {
	Success  bool                       `json:"success"`
	Calendar map[string]domain.DayColor `json:"calendar"`
}

// DayResponse wraps the tasks of one calendar date.
type DayResponse struct {
	Success bool           `json:"success"`
	Date    string         `json:"date"`
	Tasks   []*domain.Task `json:"tasks"`
}

// StatsResponse wraps per-status task counts for the dashboard.
type StatsResponse struct {
	Success bool                      `json:"success"`
	Stats   map[domain.TaskStatus]int `json:"stats"`
}
