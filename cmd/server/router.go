package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/studybuddy/studybuddy-api/internal/api"
	apiMiddleware "github.com/studybuddy/studybuddy-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	secureCookie := app.config.Server.IsProduction()

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		secureCookie,
	)
	taskHandler := api.NewTaskHandler(app.taskService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore, secureCookie)
	cleanupMiddleware := apiMiddleware.NewCleanupMiddleware(app.taskService)

	// Authentication endpoints (public)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/auth/logout", authHandler.Logout)

	// Task endpoints, guarded by the session and swept for retention
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Use(cleanupMiddleware.SweepExpiredTasks)

		r.Get("/", taskHandler.List)
		r.Get("/calendar", taskHandler.Calendar)
		r.Get("/day/{date}", taskHandler.Day)
		r.Get("/stats", taskHandler.Stats)
		r.Post("/create", taskHandler.Create)

		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Post("/{id}/status", taskHandler.UpdateStatus)
		r.Delete("/{id}", taskHandler.Delete)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
