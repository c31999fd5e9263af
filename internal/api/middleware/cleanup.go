package middleware

import (
	"log/slog"
	"net/http"

	"github.com/studybuddy/studybuddy-api/internal/platform/logger"
	"github.com/studybuddy/studybuddy-api/internal/redact"
	"github.com/studybuddy/studybuddy-api/internal/service"
)

// CleanupMiddleware lazily enforces task retention. On every
// authenticated task request it deletes the user's tasks whose scheduled
// time fell out of the retention window. There is no background job; a
// user's expired tasks are swept the next time they show up.
//
// The sweep must never take a request down with it. Failures are logged
// and the request proceeds against the unswept data.
type CleanupMiddleware struct {
	taskService service.TaskService
}

// NewCleanupMiddleware creates a new CleanupMiddleware.
func NewCleanupMiddleware(taskService service.TaskService) *CleanupMiddleware {
	return &CleanupMiddleware{taskService: taskService}
}

// SweepExpiredTasks runs the retention sweep for the authenticated user
// before passing the request on. It must run after AuthMiddleware.
func (m *CleanupMiddleware) SweepExpiredTasks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), slog.Default())

		userID, ok := GetUserID(r)
		if !ok {
			// Auth should have rejected the request already.
			log.Warn("retention sweep skipped: no user in context", "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		deleted, err := m.taskService.SweepExpired(r.Context(), userID)
		if err != nil {
			log.Warn("retention sweep failed",
				"error", redact.Error(err),
				"user_id", userID)
		} else if deleted > 0 {
			log.Info("retention sweep removed expired tasks",
				"user_id", userID,
				"deleted", deleted)
		}

		next.ServeHTTP(w, r)
	})
}
