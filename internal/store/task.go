package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/studybuddy/studybuddy-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every read and mutation that names a task ID is additionally scoped by
// the owning user at the query level, so a task belonging to another
// user is indistinguishable from a task that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID, scoped to the given owner.
	// Returns ErrTaskNotFound if the task is absent or owned by someone else.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// ListByOwner returns all tasks for a user ordered by scheduled time
	// ascending. Returns an empty slice when the user has no tasks.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// ListByRange returns the user's tasks with scheduled time within
	// [start, end] inclusive, ordered by scheduled time ascending.
	ListByRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.Task, error)

	// Update persists changes to a task's title, description, status,
	// completion timestamp and scheduled time, scoped to (ID, UserID).
	// Returns ErrTaskNotFound if the task is absent or owned by someone else.
	Update(ctx context.Context, task *domain.Task) error

	// UpdateStatus sets a task's status and completion timestamp
	// directly, scoped to (id, ownerID). No derivation is applied.
	// Returns ErrTaskNotFound if the task is absent or owned by someone else.
	UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status domain.TaskStatus, completedAt *time.Time) error

	// Delete removes a task scoped to (id, ownerID).
	// Returns ErrTaskNotFound if the task is absent or owned by someone else.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// DeleteOlderThan removes all of a user's tasks whose scheduled time
	// is strictly before the cutoff, returning the number deleted.
	// A nil ownerID pointer widens the delete to all users; the
	// per-request retention sweep always passes a concrete owner.
	DeleteOlderThan(ctx context.Context, ownerID *uuid.UUID, cutoff time.Time) (int64, error)

	// CountByStatus returns the number of the user's tasks per status.
	// Statuses with zero tasks are present with a zero count.
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[domain.TaskStatus]int, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
