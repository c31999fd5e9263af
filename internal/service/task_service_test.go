package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/mocks"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

// fixedNow keeps derivation deterministic across the suite.
var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestTaskService(t *testing.T, taskStore store.TaskStore) *taskServiceImpl {
	t.Helper()

	svc, err := NewTaskService(taskStore, slog.Default())
	require.NoError(t, err)

	impl, ok := svc.(*taskServiceImpl)
	require.True(t, ok)
	impl.timeFunc = func() time.Time { return fixedNow }
	return impl
}

func seedTask(t *testing.T, taskStore *mocks.MockTaskStore, ownerID uuid.UUID, title string, scheduledFor time.Time, status domain.TaskStatus) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, "", scheduledFor)
	require.NoError(t, err)
	require.NoError(t, task.ApplyStatus(status, fixedNow))
	taskStore.Tasks[task.ID] = task
	return task
}

func TestNewTaskServiceValidatesDependencies(t *testing.T) {
	_, err := NewTaskService(nil, slog.Default())
	assert.Error(t, err)

	_, err = NewTaskService(mocks.NewMockTaskStore(), nil)
	assert.Error(t, err)
}

func TestListTasksRewritesOverduePending(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()

	overdue := seedTask(t, taskStore, ownerID, "overdue", fixedNow.Add(-time.Hour), domain.TaskStatusPending)
	future := seedTask(t, taskStore, ownerID, "future", fixedNow.Add(time.Hour), domain.TaskStatusPending)
	done := seedTask(t, taskStore, ownerID, "done", fixedNow.Add(-2*time.Hour), domain.TaskStatusCompleted)

	svc := newTestTaskService(t, taskStore)

	tasks, err := svc.ListTasks(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// The rewrite is persisted, not just reflected in the response.
	assert.Equal(t, domain.TaskStatusMissed, taskStore.Tasks[overdue.ID].Status)
	assert.Equal(t, domain.TaskStatusPending, taskStore.Tasks[future.ID].Status)
	assert.Equal(t, domain.TaskStatusCompleted, taskStore.Tasks[done.ID].Status)
	assert.NotNil(t, taskStore.Tasks[done.ID].CompletedAt)
}

func TestListTasksToleratesRewriteFailure(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()
	seedTask(t, taskStore, ownerID, "overdue", fixedNow.Add(-time.Hour), domain.TaskStatusPending)

	taskStore.UpdateStatusFn = func(ctx context.Context, id, owner uuid.UUID, status domain.TaskStatus, completedAt *time.Time) error {
		return errors.New("connection reset")
	}

	svc := newTestTaskService(t, taskStore)

	tasks, err := svc.ListTasks(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Caller still sees the derived status.
	assert.Equal(t, domain.TaskStatusMissed, tasks[0].Status)
}

func TestTasksForDay(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()

	inside := seedTask(t, taskStore, ownerID, "inside",
		time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC), domain.TaskStatusPending)
	seedTask(t, taskStore, ownerID, "next day",
		time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), domain.TaskStatusPending)

	svc := newTestTaskService(t, taskStore)

	tasks, err := svc.TasksForDay(context.Background(), ownerID, "2024-06-15")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, inside.ID, tasks[0].ID)
}

func TestTasksForDayRejectsBadDate(t *testing.T) {
	svc := newTestTaskService(t, mocks.NewMockTaskStore())

	_, err := svc.TasksForDay(context.Background(), uuid.New(), "15/06/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCalendarNormalizesBeforeColoring(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()

	// Overdue pending task: the day must come out red, not yellow.
	seedTask(t, taskStore, ownerID, "overdue", fixedNow.Add(-time.Hour), domain.TaskStatusPending)
	seedTask(t, taskStore, ownerID, "done same day", fixedNow.Add(-2*time.Hour), domain.TaskStatusCompleted)
	seedTask(t, taskStore, ownerID, "tomorrow", fixedNow.Add(24*time.Hour), domain.TaskStatusPending)

	svc := newTestTaskService(t, taskStore)

	colors, err := svc.Calendar(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, domain.DayColorRed, colors["2024-06-15"])
	assert.Equal(t, domain.DayColorYellow, colors["2024-06-16"])
	assert.Len(t, colors, 2)
}

func TestStatsCountNormalizedStatuses(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()

	seedTask(t, taskStore, ownerID, "overdue", fixedNow.Add(-time.Hour), domain.TaskStatusPending)
	seedTask(t, taskStore, ownerID, "future", fixedNow.Add(time.Hour), domain.TaskStatusPending)
	seedTask(t, taskStore, uuid.New(), "other user", fixedNow.Add(time.Hour), domain.TaskStatusPending)

	svc := newTestTaskService(t, taskStore)

	counts, err := svc.Stats(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, 1, counts[domain.TaskStatusPending])
	assert.Equal(t, 1, counts[domain.TaskStatusMissed])
	assert.Equal(t, 0, counts[domain.TaskStatusCompleted])
}

func TestUpdateTaskReschedule(t *testing.T) {
	t.Run("into the past becomes missed", func(t *testing.T) {
		taskStore := mocks.NewMockTaskStore()
		ownerID := uuid.New()
		task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(time.Hour), domain.TaskStatusPending)

		svc := newTestTaskService(t, taskStore)

		updated, err := svc.UpdateTask(context.Background(), ownerID, task.ID, UpdateTaskParams{
			Title:        "  task  ",
			Status:       domain.TaskStatusPending,
			ScheduledFor: fixedNow.Add(-time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, "task", updated.Title)
		assert.Equal(t, domain.TaskStatusMissed, updated.Status)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("into the future recovers to pending", func(t *testing.T) {
		taskStore := mocks.NewMockTaskStore()
		ownerID := uuid.New()
		task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(-time.Hour), domain.TaskStatusMissed)

		svc := newTestTaskService(t, taskStore)

		updated, err := svc.UpdateTask(context.Background(), ownerID, task.ID, UpdateTaskParams{
			Title:        "task",
			Status:       domain.TaskStatusMissed,
			ScheduledFor: fixedNow.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusPending, updated.Status)
	})

	t.Run("completed stays completed", func(t *testing.T) {
		taskStore := mocks.NewMockTaskStore()
		ownerID := uuid.New()
		task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(-time.Hour), domain.TaskStatusCompleted)
		originalCompletion := task.CompletedAt

		svc := newTestTaskService(t, taskStore)

		updated, err := svc.UpdateTask(context.Background(), ownerID, task.ID, UpdateTaskParams{
			Title:        "task",
			Status:       domain.TaskStatusCompleted,
			ScheduledFor: fixedNow.Add(-2 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		assert.Equal(t, originalCompletion, updated.CompletedAt)
	})
}

func TestUpdateTaskHonorsSubmittedStatus(t *testing.T) {
	t.Run("completing through an edit", func(t *testing.T) {
		taskStore := mocks.NewMockTaskStore()
		ownerID := uuid.New()
		task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(time.Hour), domain.TaskStatusPending)

		svc := newTestTaskService(t, taskStore)

		updated, err := svc.UpdateTask(context.Background(), ownerID, task.ID, UpdateTaskParams{
			Title:        "task",
			Status:       domain.TaskStatusCompleted,
			ScheduledFor: fixedNow.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		assert.Equal(t, fixedNow, *updated.CompletedAt)

		// The change is persisted, not just echoed.
		assert.Equal(t, domain.TaskStatusCompleted, taskStore.Tasks[task.ID].Status)
	})

	t.Run("reopening through an edit", func(t *testing.T) {
		taskStore := mocks.NewMockTaskStore()
		ownerID := uuid.New()
		task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(-time.Hour), domain.TaskStatusCompleted)

		svc := newTestTaskService(t, taskStore)

		updated, err := svc.UpdateTask(context.Background(), ownerID, task.ID, UpdateTaskParams{
			Title:        "task",
			Status:       domain.TaskStatusPending,
			ScheduledFor: fixedNow.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusPending, updated.Status)
		assert.Nil(t, updated.CompletedAt)
	})
}

func TestUpdateTaskRejectsUnknownStatus(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()
	task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(time.Hour), domain.TaskStatusPending)

	svc := newTestTaskService(t, taskStore)

	_, err := svc.UpdateTask(context.Background(), ownerID, task.ID, UpdateTaskParams{
		Title:        "task",
		Status:       domain.TaskStatus("archived"),
		ScheduledFor: fixedNow.Add(time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
}

func TestUpdateTaskOwnershipScope(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	task := seedTask(t, taskStore, uuid.New(), "task", fixedNow.Add(time.Hour), domain.TaskStatusPending)

	svc := newTestTaskService(t, taskStore)

	_, err := svc.UpdateTask(context.Background(), uuid.New(), task.ID, UpdateTaskParams{
		Title:        "hijacked",
		Status:       domain.TaskStatusPending,
		ScheduledFor: fixedNow.Add(time.Hour),
	})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestUpdateTaskStatusMaintainsCompletedAt(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()
	task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(time.Hour), domain.TaskStatusPending)

	svc := newTestTaskService(t, taskStore)
	ctx := context.Background()

	updated, err := svc.UpdateTaskStatus(ctx, ownerID, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, fixedNow, *updated.CompletedAt)

	updated, err = svc.UpdateTaskStatus(ctx, ownerID, task.ID, domain.TaskStatusPending)
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestUpdateTaskStatusRejectsUnknownStatus(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()
	task := seedTask(t, taskStore, ownerID, "task", fixedNow.Add(time.Hour), domain.TaskStatusPending)

	svc := newTestTaskService(t, taskStore)

	_, err := svc.UpdateTaskStatus(context.Background(), ownerID, task.ID, domain.TaskStatus("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
}

func TestSweepExpired(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	ownerID := uuid.New()

	old := seedTask(t, taskStore, ownerID, "old", fixedNow.Add(-RetentionPeriod-time.Hour), domain.TaskStatusMissed)
	kept := seedTask(t, taskStore, ownerID, "kept", fixedNow.Add(-RetentionPeriod), domain.TaskStatusMissed)
	otherOld := seedTask(t, taskStore, uuid.New(), "other old", fixedNow.Add(-RetentionPeriod-time.Hour), domain.TaskStatusMissed)

	svc := newTestTaskService(t, taskStore)

	deleted, err := svc.SweepExpired(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.NotContains(t, taskStore.Tasks, old.ID)
	// Exactly at the cutoff is kept: the sweep is strictly-older-than.
	assert.Contains(t, taskStore.Tasks, kept.ID)
	// Other users' tasks are out of scope for a per-owner sweep.
	assert.Contains(t, taskStore.Tasks, otherOld.ID)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestTaskService(t, mocks.NewMockTaskStore())

	_, err := svc.CreateTask(context.Background(), uuid.New(), "   ", "", fixedNow)
	assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
}
