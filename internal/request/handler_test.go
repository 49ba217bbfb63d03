package request_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	"github.com/frahmantamala/workforce-admin/internal/request"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

var _ = Describe("Request Handler", func() {
	var (
		router http.Handler
		repo   *mockRequestRepository
	)

	withSession := func(s access.Session) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if s.Valid() {
					r = r.WithContext(errors.ContextWithSession(r.Context(), s))
				}
				next.ServeHTTP(w, r)
			})
		}
	}

	build := func(s access.Session) {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		projects := &mockProjectReader{projects: map[int64]*projectDatamodel.Project{
			10: {ID: 10, ManagerID: managerID, TeamMembers: []int64{employeeID}},
		}}
		service := request.NewService(repo, projects, nil, lg)
		handler := request.NewHandler(transport.NewBaseHandler(lg), service)

		r := chi.NewRouter()
		r.Use(withSession(s))
		r.Get("/requests", handler.ListRequests)
		r.Post("/requests", handler.SubmitRequest)
		r.Get("/requests/{id}", handler.GetRequest)
		r.Patch("/requests/{id}/status", handler.RespondToRequest)
		r.Delete("/requests/{id}", handler.DeleteRequest)
		router = r
	}

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		repo = newMockRequestRepository()
	})

	It("creates a request and returns 201", func() {
		build(employee)
		w := do(http.MethodPost, "/requests", request.SubmitRequestDTO{ProjectID: 10, Equipment: "Monitor", Quantity: 1, Reason: "Second screen"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var got request.Request
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Status).To(BeEquivalentTo("Pending"))
	})

	It("maps validation failures to 400 with field details", func() {
		build(employee)
		w := do(http.MethodPost, "/requests", request.SubmitRequestDTO{ProjectID: 10, Equipment: "Monitor", Quantity: -1, Reason: "x"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_QUANTITY"))
	})

	It("maps authorization failures to 403", func() {
		build(access.Session{ActorID: outsiderID, Role: access.RoleEmployee})
		w := do(http.MethodPost, "/requests", request.SubmitRequestDTO{ProjectID: 10, Equipment: "Monitor", Quantity: 1, Reason: "x"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("answers 401 without a session", func() {
		build(access.Session{})
		w := do(http.MethodGet, "/requests", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("maps a second response to 409", func() {
		build(employee)
		Expect(do(http.MethodPost, "/requests", request.SubmitRequestDTO{ProjectID: 10, Equipment: "Desk", Quantity: 1, Reason: "x"}).Code).To(Equal(http.StatusCreated))

		build(manager)
		Expect(do(http.MethodPatch, "/requests/1/status", request.RespondDTO{Status: "Approved"}).Code).To(Equal(http.StatusOK))
		w := do(http.MethodPatch, "/requests/1/status", request.RespondDTO{Status: "Rejected"})
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("REQUEST_NOT_PENDING"))
	})

	It("answers 403 to an outsider responding to a settled request", func() {
		build(employee)
		Expect(do(http.MethodPost, "/requests", request.SubmitRequestDTO{ProjectID: 10, Equipment: "Desk", Quantity: 1, Reason: "x"}).Code).To(Equal(http.StatusCreated))
		build(manager)
		Expect(do(http.MethodPatch, "/requests/1/status", request.RespondDTO{Status: "Approved"}).Code).To(Equal(http.StatusOK))

		build(access.Session{ActorID: outsiderID, Role: access.RoleEmployee})
		w := do(http.MethodPatch, "/requests/1/status", request.RespondDTO{Status: "Rejected"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).NotTo(ContainSubstring("REQUEST_NOT_PENDING"))
	})

	It("rejects a malformed id", func() {
		build(admin)
		Expect(do(http.MethodGet, "/requests/abc", nil).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/requests/7", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("deletes as admin with 204", func() {
		build(employee)
		Expect(do(http.MethodPost, "/requests", request.SubmitRequestDTO{ProjectID: 10, Equipment: "Desk", Quantity: 1, Reason: "x"}).Code).To(Equal(http.StatusCreated))

		build(admin)
		Expect(do(http.MethodDelete, "/requests/1", nil).Code).To(Equal(http.StatusNoContent))
	})
})
