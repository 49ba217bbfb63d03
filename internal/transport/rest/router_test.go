package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-admin/api"
	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/auth"
	"github.com/frahmantamala/workforce-admin/internal/employee"
	"github.com/frahmantamala/workforce-admin/internal/project"
	"github.com/frahmantamala/workforce-admin/internal/request"
	"github.com/frahmantamala/workforce-admin/internal/task"
	"github.com/frahmantamala/workforce-admin/internal/transport"
	"github.com/frahmantamala/workforce-admin/internal/transport/sse"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("RegisterAllRoutes", func() {
	var router *chi.Mux

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(lg)
		tokens := auth.NewJWTTokenGenerator("access-secret-access-secret-0123456", "refresh-secret-refresh-secret-01234", 0, 0)

		router = chi.NewRouter()
		RegisterAllRoutes(router, Handlers{
			Auth:     auth.NewHandler(base, auth.NewService(nil, tokens, lg)),
			RBAC:     auth.NewRBACAuthorization(base),
			Employee: employee.NewHandler(base, nil),
			Project:  project.NewHandler(base, nil),
			Task:     task.NewHandler(base, nil),
			Request:  request.NewHandler(base, nil),
			Events:   sse.NewHub(base, 1, 0),
		}, "*", lg)
	})

	It("documents every mounted route in the OpenAPI document", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		var missing []string
		err = chi.Walk(router, func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			if !strings.HasPrefix(route, "/api/v1/") {
				return nil
			}
			path := strings.TrimSuffix(strings.TrimPrefix(route, "/api/v1"), "/")
			item := doc.Paths.Find(path)
			if item == nil || item.GetOperation(method) == nil {
				missing = append(missing, method+" "+path)
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(missing).To(BeEmpty())
	})

	It("serves the embedded document", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("openapi: 3.0.3"))
	})

	It("guards protected routes with the auth middleware", func() {
		for _, path := range []string{"/api/v1/me", "/api/v1/projects", "/api/v1/requests", "/api/v1/requests/events"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized), path)
		}
	})

	It("keeps admin-only routes closed to employees", func() {
		tokens := auth.NewJWTTokenGenerator("access-secret-access-secret-0123456", "refresh-secret-refresh-secret-01234", 0, 0)
		token, err := tokens.GenerateAccessToken(3, access.RoleEmployee)
		Expect(err).NotTo(HaveOccurred())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})
})
