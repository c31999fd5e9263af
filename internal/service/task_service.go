package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/platform/logger"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

// RetentionPeriod is how long tasks are kept after their scheduled time.
// Tasks scheduled strictly more than this far in the past are removed by
// the per-request sweep.
const RetentionPeriod = 30 * 24 * time.Hour

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// UpdateTaskParams carries the editable fields of a task for a full edit.
// Status is the caller's submitted status; the effective status is derived
// from it together with the new scheduled time.
type UpdateTaskParams struct {
	Title        string
	Description  string
	Status       domain.TaskStatus
	ScheduledFor time.Time
}

// TaskService provides task-related operations scoped to a single owner.
// All reads that return task collections normalize statuses first: a
// pending task whose scheduled time has passed is rewritten to missed
// and the rewrite is persisted.
type TaskService interface {
	// CreateTask creates a new pending task for the owner.
	CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, scheduledFor time.Time) (*domain.Task, error)

	// GetTask retrieves one of the owner's tasks by ID.
	// Returns store.ErrTaskNotFound if the task is absent or owned by
	// someone else.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks returns all of the owner's tasks ordered by scheduled
	// time ascending, statuses normalized.
	ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// TasksForDay returns the owner's tasks scheduled within the given
	// UTC calendar date (YYYY-MM-DD), statuses normalized.
	TasksForDay(ctx context.Context, ownerID uuid.UUID, date string) ([]*domain.Task, error)

	// Calendar returns a severity color per UTC calendar date across all
	// of the owner's tasks, statuses normalized. Days without tasks have
	// no entry.
	Calendar(ctx context.Context, ownerID uuid.UUID) (map[string]domain.DayColor, error)

	// Stats returns the owner's task counts per status. Counts reflect
	// stored statuses after normalization.
	Stats(ctx context.Context, ownerID uuid.UUID) (map[domain.TaskStatus]int, error)

	// UpdateTask applies a full edit to one of the owner's tasks. The
	// effective status is derived from the submitted status and the new
	// scheduled time: a completed submission stays completed; anything
	// else becomes missed when the schedule is in the past and pending
	// otherwise.
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, params UpdateTaskParams) (*domain.Task, error)

	// UpdateTaskStatus sets the status of one of the owner's tasks
	// explicitly, maintaining the completion timestamp invariant.
	UpdateTaskStatus(ctx context.Context, ownerID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// DeleteTask removes one of the owner's tasks.
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error

	// SweepExpired deletes the owner's tasks scheduled more than
	// RetentionPeriod before now, returning the number removed.
	SweepExpired(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
	timeFunc  func() time.Time // Injectable for testing
}

// Ensure taskServiceImpl implements TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
		timeFunc:  time.Now,
	}, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	title, description string,
	scheduledFor time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, title, description, scheduledFor)
	if err != nil {
		return nil, NewTaskServiceError("create", "invalid task data", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Debug("task created",
		"task_id", task.ID,
		"user_id", ownerID,
		"scheduled_for", task.ScheduledFor)

	return task, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks.
func (s *taskServiceImpl) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}

	s.normalizeStatuses(ctx, ownerID, tasks)
	return tasks, nil
}

// TasksForDay implements TaskService.TasksForDay.
func (s *taskServiceImpl) TasksForDay(ctx context.Context, ownerID uuid.UUID, date string) ([]*domain.Task, error) {
	start, end, err := domain.DayWindow(date)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskStore.ListByRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, NewTaskServiceError("day", "failed to list tasks for day", err)
	}

	s.normalizeStatuses(ctx, ownerID, tasks)
	return tasks, nil
}

// Calendar implements TaskService.Calendar.
func (s *taskServiceImpl) Calendar(ctx context.Context, ownerID uuid.UUID) (map[string]domain.DayColor, error) {
	tasks, err := s.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return domain.BuildCalendar(tasks), nil
}

// Stats implements TaskService.Stats.
func (s *taskServiceImpl) Stats(ctx context.Context, ownerID uuid.UUID) (map[domain.TaskStatus]int, error) {
	// Normalize first so overdue pending tasks count as missed.
	if _, err := s.ListTasks(ctx, ownerID); err != nil {
		return nil, err
	}

	counts, err := s.taskStore.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, NewTaskServiceError("stats", "failed to count tasks", err)
	}
	return counts, nil
}

// UpdateTask implements TaskService.UpdateTask.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	params UpdateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	if !params.Status.IsValid() {
		return nil, NewTaskServiceError("update", "invalid status", domain.ErrInvalidTaskStatus)
	}

	var task *domain.Task
	err := s.withTaskTx(ctx, func(ts store.TaskStore) error {
		var err error
		task, err = ts.GetByID(ctx, taskID, ownerID)
		if err != nil {
			return err
		}

		task.Title = strings.TrimSpace(params.Title)
		task.Description = strings.TrimSpace(params.Description)
		task.ScheduledFor = params.ScheduledFor

		// The submitted status goes through the same derivation as every
		// other transition: completed sticks, anything else resolves
		// against the new schedule.
		derived := domain.DeriveStatus(task.ScheduledFor, params.Status, now)
		if err := task.ApplyStatus(derived, now); err != nil {
			return NewTaskServiceError("update", "failed to derive status", err)
		}

		if err := task.Validate(); err != nil {
			return NewTaskServiceError("update", "invalid task data", err)
		}

		return ts.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Debug("task updated",
		"task_id", task.ID,
		"user_id", ownerID,
		"status", task.Status)

	return task, nil
}

// UpdateTaskStatus implements TaskService.UpdateTaskStatus.
func (s *taskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	now := s.timeFunc()

	var task *domain.Task
	err := s.withTaskTx(ctx, func(ts store.TaskStore) error {
		var err error
		task, err = ts.GetByID(ctx, taskID, ownerID)
		if err != nil {
			return err
		}

		if err := task.ApplyStatus(status, now); err != nil {
			return NewTaskServiceError("status", "invalid status", err)
		}

		return ts.UpdateStatus(ctx, task.ID, ownerID, task.Status, task.CompletedAt)
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.taskStore.Delete(ctx, taskID, ownerID)
}

// SweepExpired implements TaskService.SweepExpired.
func (s *taskServiceImpl) SweepExpired(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	cutoff := s.timeFunc().Add(-RetentionPeriod)
	return s.taskStore.DeleteOlderThan(ctx, &ownerID, cutoff)
}

// dbProvider is implemented by stores backed by a root *sql.DB handle.
// Transaction-scoped stores report a nil handle.
type dbProvider interface {
	DB() *sql.DB
}

// withTaskTx runs fn against a transaction-scoped task store so that
// read-modify-write sequences see a consistent row. Stores without a
// database handle (the in-memory ones used in tests) run fn directly.
func (s *taskServiceImpl) withTaskTx(ctx context.Context, fn func(ts store.TaskStore) error) error {
	provider, ok := s.taskStore.(dbProvider)
	if !ok || provider.DB() == nil {
		return fn(s.taskStore)
	}

	return store.RunInTransaction(ctx, provider.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return fn(s.taskStore.WithTx(tx))
	})
}

// normalizeStatuses rewrites overdue pending tasks to missed, both on the
// in-memory slice and in the store. Persistence failures are logged and
// otherwise ignored; the caller still sees the derived status, and the
// next read retries the rewrite.
func (s *taskServiceImpl) normalizeStatuses(ctx context.Context, ownerID uuid.UUID, tasks []*domain.Task) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	for _, task := range tasks {
		if !task.IsOverdue(now) {
			continue
		}

		if err := task.ApplyStatus(domain.TaskStatusMissed, now); err != nil {
			// Unreachable with a valid constant status.
			continue
		}

		if err := s.taskStore.UpdateStatus(ctx, task.ID, ownerID, task.Status, task.CompletedAt); err != nil {
			log.Warn("failed to persist missed status",
				"error", err,
				"task_id", task.ID,
				"user_id", ownerID)
		}
	}
}
