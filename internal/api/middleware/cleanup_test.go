package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/studybuddy-api/internal/api/shared"
	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/mocks"
	"github.com/studybuddy/studybuddy-api/internal/service"
)

func sweepRequest(t *testing.T, taskStore *mocks.MockTaskStore, userID uuid.UUID) (bool, *httptest.ResponseRecorder) {
	t.Helper()

	taskService, err := service.NewTaskService(taskStore, slog.Default())
	require.NoError(t, err)

	middleware := NewCleanupMiddleware(taskService)

	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	middleware.SweepExpiredTasks(next).ServeHTTP(rec, req)

	return nextCalled, rec
}

func TestSweepRemovesOnlyExpiredOwnedTasks(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	userID := uuid.New()
	otherID := uuid.New()

	expired, err := domain.NewTask(userID, "expired", "", time.Now().UTC().Add(-31*24*time.Hour))
	require.NoError(t, err)
	recent, err := domain.NewTask(userID, "recent", "", time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	foreign, err := domain.NewTask(otherID, "foreign", "", time.Now().UTC().Add(-31*24*time.Hour))
	require.NoError(t, err)
	taskStore.Tasks[expired.ID] = expired
	taskStore.Tasks[recent.ID] = recent
	taskStore.Tasks[foreign.ID] = foreign

	nextCalled, rec := sweepRequest(t, taskStore, userID)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, taskStore.Tasks, expired.ID)
	assert.Contains(t, taskStore.Tasks, recent.ID)
	assert.Contains(t, taskStore.Tasks, foreign.ID)
}

func TestSweepFailureDoesNotBlockRequest(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	taskStore.DeleteOlderThanFn = func(ctx context.Context, ownerID *uuid.UUID, cutoff time.Time) (int64, error) {
		return 0, errors.New("deadlock detected")
	}

	nextCalled, rec := sweepRequest(t, taskStore, uuid.New())

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSweepWithoutUserInContext(t *testing.T) {
	nextCalled, rec := sweepRequest(t, mocks.NewMockTaskStore(), uuid.Nil)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}
