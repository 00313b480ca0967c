package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/commerceprecision/cpe-api/internal/api"
	apiMiddleware "github.com/commerceprecision/cpe-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.authService)
	subjectHandler := api.NewSubjectHandler(app.subjectStore)
	questionHandler := api.NewQuestionHandler(app.questionService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Syllabus catalog
			r.Get("/subjects", subjectHandler.ListSubjects)
			r.Get("/subjects/{subjectID}/chapters", subjectHandler.ListChapters)

			// Question answering
			r.Post("/questions", questionHandler.AskQuestion)
			r.Get("/questions", questionHandler.GetHistory)
			r.Get("/questions/{questionID}", questionHandler.GetQuestion)
		})
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
