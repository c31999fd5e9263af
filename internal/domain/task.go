package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskUserIDEmpty is returned when a task's user ID is empty or nil.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty after trimming.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskScheduledForZero is returned when a task has no scheduled time.
	ErrTaskScheduledForZero = errors.New("task scheduled time is required")

	// ErrInvalidTaskStatus is returned when a task status is not one of
	// pending, completed or missed.
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusMissed    TaskStatus = "missed"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusMissed:
		return true
	}
	return false
}

// Task represents a scheduled unit of work owned by exactly one user.
// Ownership never transfers after creation.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	Status       TaskStatus `json:"status"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. The title and
// description are trimmed and the status is initialized to pending.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string, scheduledFor time.Time) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		ScheduledFor: scheduledFor,
		Status:       TaskStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if t.ScheduledFor.IsZero() {
		return ErrTaskScheduledForZero
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// DeriveStatus maps a task's scheduled time and current status to its
// effective status at the given instant:
//
//   - completed is terminal and never reverts through the passage of time,
//   - a pending task whose scheduled time has passed is missed,
//   - otherwise the task remains pending.
//
// The function is pure; callers persist the result where the effective
// status must stick (list reads and full edits).
func DeriveStatus(scheduledFor time.Time, current TaskStatus, now time.Time) TaskStatus {
	if current == TaskStatusCompleted {
		return TaskStatusCompleted
	}
	if scheduledFor.Before(now) {
		return TaskStatusMissed
	}
	return TaskStatusPending
}

// IsOverdue reports whether the task is pending with a scheduled time in
// the past, i.e. would derive to missed right now.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status == TaskStatusPending && t.ScheduledFor.Before(now)
}

// ApplyStatus sets the task's status and maintains the completion
// timestamp invariant: CompletedAt is non-nil exactly when the status is
// completed. An already-completed task keeps its original completion
// time. Returns ErrInvalidTaskStatus for unknown statuses.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if status == TaskStatusCompleted {
		if t.CompletedAt == nil {
			completed := now.UTC()
			t.CompletedAt = &completed
		}
	} else {
		t.CompletedAt = nil
	}

	t.Status = status
	t.UpdatedAt = now.UTC()
	return nil
}
