package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the full route tree under /api/v1.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.Signup)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/auth/refresh", s.Refresh)

			r.Get("/users/me", s.CurrentUser)
			r.Put("/users/me", s.UpdateProfile)
			r.Put("/users/me/preferences", s.UpdatePreferences)
			r.Put("/users/me/goals", s.UpdateUserGoals)

			r.Get("/goals", s.Goals)
			r.Post("/goals", s.CreateGoal)
			r.Put("/goals/{id}", s.UpdateGoal)
			r.Delete("/goals/{id}", s.DeleteGoal)
		})

		// The course library is public on the real service as well.
		r.Get("/courses", s.Courses)
		r.Get("/courses/{id}", s.Course)
	})

	return r
}
