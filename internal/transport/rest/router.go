package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/workforce-admin/api"
	"github.com/frahmantamala/workforce-admin/internal/auth"
	"github.com/frahmantamala/workforce-admin/internal/employee"
	"github.com/frahmantamala/workforce-admin/internal/project"
	"github.com/frahmantamala/workforce-admin/internal/request"
	"github.com/frahmantamala/workforce-admin/internal/task"
	"github.com/frahmantamala/workforce-admin/internal/transport/middleware"
	"github.com/frahmantamala/workforce-admin/internal/transport/sse"
	"github.com/frahmantamala/workforce-admin/internal/transport/swagger"
)

// Handlers bundles everything mounted under /api/v1.
type Handlers struct {
	Health   *HealthHandler
	Auth     *auth.Handler
	RBAC     *auth.RBACAuthorization
	Employee *employee.Handler
	Project  *project.Handler
	Task     *task.Handler
	Request  *request.Handler
	Events   *sse.Hub
}

func RegisterAllRoutes(router chi.Router, h Handlers, allowedOrigins string, logger *slog.Logger) {
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/me", h.Auth.Me)

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", h.Employee.ListEmployees)
				er.With(h.RBAC.RequireStaff()).Get("/assignable", h.Employee.ListAssignable)
				er.With(h.RBAC.RequireStaff()).Get("/managers", h.Employee.ListManagers)
				er.Get("/{id}", h.Employee.GetEmployee)
				er.Get("/{id}/projects", h.Project.ListEmployeeProjects)
				er.Get("/{id}/requests", h.Request.ListEmployeeRequests)

				er.Group(func(ad chi.Router) {
					ad.Use(h.RBAC.RequireAdmin())
					ad.Post("/", h.Employee.CreateEmployee)
					ad.Patch("/{id}", h.Employee.UpdateEmployee)
					ad.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			pr.Route("/managers/{id}", func(mr chi.Router) {
				mr.Get("/projects", h.Project.ListManagerProjects)
				mr.Get("/requests", h.Request.ListManagerRequests)
			})

			pr.Route("/projects", func(pj chi.Router) {
				pj.Get("/", h.Project.ListProjects)
				pj.With(h.RBAC.RequireAdmin()).Post("/", h.Project.CreateProject)
				pj.Get("/{id}", h.Project.GetProject)
				pj.Patch("/{id}", h.Project.UpdateProject)
				pj.With(h.RBAC.RequireAdmin()).Delete("/{id}", h.Project.DeleteProject)
				pj.Put("/{id}/teams", h.Project.UpdateTeams)
				pj.Get("/{id}/tasks", h.Task.ListProjectTasks)
				pj.Post("/{id}/tasks", h.Task.CreateTask)
				pj.Get("/{id}/progress", h.Task.GetProgress)
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Get("/mine", h.Task.ListMyTasks)
				tr.Patch("/{id}", h.Task.UpdateTask)
				tr.Delete("/{id}", h.Task.DeleteTask)
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Get("/", h.Request.ListRequests)
				rr.Post("/", h.Request.SubmitRequest)
				if h.Events != nil {
					rr.Get("/events", h.Events.ServeHTTP)
				}
				rr.Get("/{id}", h.Request.GetRequest)
				rr.Patch("/{id}/status", h.Request.RespondToRequest)
				rr.With(h.RBAC.RequireAdmin()).Delete("/{id}", h.Request.DeleteRequest)
			})
		})
	})
}
