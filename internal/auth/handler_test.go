package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

var _ = ginkgo.Describe("Auth HTTP", func() {
	var (
		router   *chi.Mux
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(lg)
		tokenGen = NewJWTTokenGenerator("access_secret", "refresh_secret", 0, 0)
		h := NewHandler(base, NewService(newMockEmployeeReader(), tokenGen, lg))
		rbac := NewRBACAuthorization(base)

		router = chi.NewRouter()
		router.Post("/auth/login", h.Login)
		router.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/me", h.Me)
			r.With(rbac.RequireAdmin()).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
				s, _ := errors.SessionFromContext(r.Context())
				base.WriteJSON(w, http.StatusOK, map[string]int64{"actor_id": s.ActorID})
			})
		})
	})

	bearer := func(id int64, role access.Role) string {
		token, err := tokenGen.GenerateAccessToken(id, role)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return "Bearer " + token
	}

	do := func(method, path, body, authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.It("logs in with valid credentials", func() {
		rec := do(http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"correct_password"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("access_token"))
	})

	ginkgo.It("answers 401 for bad credentials and 400 for a bad body", func() {
		rec := do(http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"nope"}`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))

		rec = do(http.MethodPost, "/auth/login", `{`, "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})

	ginkgo.It("requires a bearer token", func() {
		gomega.Expect(do(http.MethodGet, "/me", "", "").Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(do(http.MethodGet, "/me", "", "Bearer junk").Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("serves /me from the session", func() {
		rec := do(http.MethodGet, "/me", "", bearer(3, access.RoleEmployee))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("user@example.com"))
		gomega.Expect(rec.Body.String()).NotTo(gomega.ContainSubstring("password"))
	})

	ginkgo.It("gates admin routes by role", func() {
		gomega.Expect(do(http.MethodGet, "/admin", "", bearer(2, access.RoleManager)).Code).To(gomega.Equal(http.StatusForbidden))

		rec := do(http.MethodGet, "/admin", "", bearer(1, access.RoleAdmin))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"actor_id":1`))
	})
})
