package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, task *domain.Task) error
	GetByIDFn         func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	ListByOwnerFn     func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)
	ListByRangeFn     func(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.Task, error)
	UpdateFn          func(ctx context.Context, task *domain.Task) error
	UpdateStatusFn    func(ctx context.Context, id, ownerID uuid.UUID, status domain.TaskStatus, completedAt *time.Time) error
	DeleteFn          func(ctx context.Context, id, ownerID uuid.UUID) error
	DeleteOlderThanFn func(ctx context.Context, ownerID *uuid.UUID, cutoff time.Time) (int64, error)
	CountByStatusFn   func(ctx context.Context, ownerID uuid.UUID) (map[domain.TaskStatus]int, error)

	// Data for default implementation
	Tasks       map[uuid.UUID]*domain.Task
	CreateError error
	ListError   error
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, ownerID)
	}

	task, exists := m.Tasks[id]
	if !exists || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// ListByOwner implements the TaskStore interface
func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}

	if m.ListError != nil {
		return nil, m.ListError
	}

	tasks := []*domain.Task{}
	for _, task := range m.Tasks {
		if task.UserID == ownerID {
			tasks = append(tasks, task)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

// ListByRange implements the TaskStore interface
func (m *MockTaskStore) ListByRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*domain.Task, error) {
	if m.ListByRangeFn != nil {
		return m.ListByRangeFn(ctx, ownerID, start, end)
	}

	if m.ListError != nil {
		return nil, m.ListError
	}

	tasks := []*domain.Task{}
	for _, task := range m.Tasks {
		if task.UserID != ownerID {
			continue
		}
		if task.ScheduledFor.Before(start) || task.ScheduledFor.After(end) {
			continue
		}
		tasks = append(tasks, task)
	}
	sortTasks(tasks)
	return tasks, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// UpdateStatus implements the TaskStore interface
func (m *MockTaskStore) UpdateStatus(
	ctx context.Context,
	id, ownerID uuid.UUID,
	status domain.TaskStatus,
	completedAt *time.Time,
) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, ownerID, status, completedAt)
	}

	task, exists := m.Tasks[id]
	if !exists || task.UserID != ownerID {
		return store.ErrTaskNotFound
	}
	task.Status = status
	task.CompletedAt = completedAt
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}

	task, exists := m.Tasks[id]
	if !exists || task.UserID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// DeleteOlderThan implements the TaskStore interface
func (m *MockTaskStore) DeleteOlderThan(ctx context.Context, ownerID *uuid.UUID, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFn != nil {
		return m.DeleteOlderThanFn(ctx, ownerID, cutoff)
	}

	var deleted int64
	for id, task := range m.Tasks {
		if ownerID != nil && task.UserID != *ownerID {
			continue
		}
		if task.ScheduledFor.Before(cutoff) {
			delete(m.Tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// CountByStatus implements the TaskStore interface
func (m *MockTaskStore) CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[domain.TaskStatus]int, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, ownerID)
	}

	counts := map[domain.TaskStatus]int{
		domain.TaskStatusPending:   0,
		domain.TaskStatusCompleted: 0,
		domain.TaskStatusMissed:    0,
	}
	for _, task := range m.Tasks {
		if task.UserID == ownerID {
			counts[task.Status]++
		}
	}
	return counts, nil
}

// WithTx implements the TaskStore interface.
// The mock has no real transactions, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ScheduledFor.Before(tasks[j].ScheduledFor)
	})
}
