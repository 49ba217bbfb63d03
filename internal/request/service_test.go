package request_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	requestDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/request"
	"github.com/frahmantamala/workforce-admin/internal/core/events"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
	"github.com/frahmantamala/workforce-admin/internal/request"
)

func TestRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Suite")
}

type mockRequestRepository struct {
	rows         map[int64]*requestDatamodel.EquipmentRequest
	nextID       int64
	writes       int
	createError  error
	updateCalled bool
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{
		rows:   make(map[int64]*requestDatamodel.EquipmentRequest),
		nextID: 1,
	}
}

func (m *mockRequestRepository) Create(ctx context.Context, req *requestDatamodel.EquipmentRequest) error {
	if m.createError != nil {
		return m.createError
	}
	m.writes++
	req.ID = m.nextID
	m.nextID++
	cp := *req
	m.rows[req.ID] = &cp
	return nil
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id int64) (*requestDatamodel.EquipmentRequest, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, errors.ErrRequestNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *mockRequestRepository) List(ctx context.Context) ([]*requestDatamodel.EquipmentRequest, error) {
	out := make([]*requestDatamodel.EquipmentRequest, 0, len(m.rows))
	for _, row := range m.rows {
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRequestRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*requestDatamodel.EquipmentRequest, error) {
	var out []*requestDatamodel.EquipmentRequest
	for _, row := range m.rows {
		if row.EmployeeID == employeeID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListByProjects(ctx context.Context, projectIDs []int64) ([]*requestDatamodel.EquipmentRequest, error) {
	var out []*requestDatamodel.EquipmentRequest
	for _, row := range m.rows {
		for _, id := range projectIDs {
			if row.ProjectID == id {
				cp := *row
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (m *mockRequestRepository) UpdateStatus(ctx context.Context, id int64, st string, respondedBy int64, respondedAt time.Time) error {
	m.updateCalled = true
	row, ok := m.rows[id]
	if !ok {
		return errors.ErrRequestNotFound
	}
	if row.Status != string(status.RequestPending) {
		return errors.ErrRequestNotPending
	}
	m.writes++
	row.Status = st
	row.RespondedBy = &respondedBy
	row.RespondedAt = &respondedAt
	return nil
}

func (m *mockRequestRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return errors.ErrRequestNotFound
	}
	m.writes++
	delete(m.rows, id)
	return nil
}

type mockProjectReader struct {
	projects map[int64]*projectDatamodel.Project
}

func (m *mockProjectReader) GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, errors.ErrProjectNotFound
	}
	return p, nil
}

func (m *mockProjectReader) ListByManager(ctx context.Context, managerID int64) ([]*projectDatamodel.Project, error) {
	var out []*projectDatamodel.Project
	for _, p := range m.projects {
		if p.ManagerID == managerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

const (
	adminID    int64 = 1
	managerID  int64 = 2
	employeeID int64 = 3
	outsiderID int64 = 4
	otherMgrID int64 = 5
)

var (
	admin    = access.Session{ActorID: adminID, Role: access.RoleAdmin}
	manager  = access.Session{ActorID: managerID, Role: access.RoleManager}
	employee = access.Session{ActorID: employeeID, Role: access.RoleEmployee}
	outsider = access.Session{ActorID: outsiderID, Role: access.RoleEmployee}
	otherMgr = access.Session{ActorID: otherMgrID, Role: access.RoleManager}
)

var _ = Describe("RequestService", func() {
	var (
		repo      *mockRequestRepository
		projects  *mockProjectReader
		publisher *recordingPublisher
		service   *request.Service
		ctx       context.Context
		clock     time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRequestRepository()
		projects = &mockProjectReader{projects: map[int64]*projectDatamodel.Project{
			10: {ID: 10, Name: "Apollo", ManagerID: managerID, TeamMembers: []int64{employeeID}},
			20: {ID: 20, Name: "Gemini", ManagerID: otherMgrID, TeamMembers: []int64{outsiderID}},
		}}
		publisher = &recordingPublisher{}
		clock = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		service = request.NewService(repo, projects, publisher, slog.New(slog.NewTextHandler(io.Discard, nil))).
			WithClock(func() time.Time { return clock })
	})

	laptop := func(projectID int64) request.SubmitRequestDTO {
		return request.SubmitRequestDTO{ProjectID: projectID, Equipment: "Laptop", Quantity: 2, Reason: "New hires"}
	}

	Describe("Submit", func() {
		It("creates a pending request for a team member", func() {
			req, err := service.Submit(ctx, employee, laptop(10))
			Expect(err).NotTo(HaveOccurred())
			Expect(req.ID).NotTo(BeZero())
			Expect(req.Status).To(Equal(status.RequestPending))
			Expect(req.EmployeeID).To(Equal(employeeID))
			Expect(req.RequestedAt).To(Equal(clock))
			Expect(req.RespondedBy).To(BeNil())
			Expect(publisher.count()).To(Equal(1))
		})

		It("lets a manager submit against a project they manage", func() {
			_, err := service.Submit(ctx, manager, laptop(10))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a non-positive quantity", func() {
			dto := laptop(10)
			dto.Quantity = 0
			_, err := service.Submit(ctx, employee, dto)
			Expect(errors.HasType(err, errors.ErrorTypeValidation)).To(BeTrue())
			Expect(repo.writes).To(BeZero())
		})

		It("rejects empty equipment and reason", func() {
			dto := laptop(10)
			dto.Equipment = "  "
			dto.Reason = ""
			_, err := service.Submit(ctx, employee, dto)
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(errors.ValidationErrors).Errors).To(HaveLen(2))
		})

		It("reports an unknown project as not found", func() {
			_, err := service.Submit(ctx, employee, laptop(99))
			Expect(err).To(MatchError(errors.ErrProjectNotFound))
			Expect(repo.writes).To(BeZero())
		})

		It("denies an employee with no project membership before writing", func() {
			_, err := service.Submit(ctx, outsider, laptop(10))
			Expect(err).To(MatchError(errors.ErrForbidden))
			Expect(repo.writes).To(BeZero())
			Expect(publisher.count()).To(BeZero())
		})

		It("denies a manager submitting against a project they do not manage", func() {
			_, err := service.Submit(ctx, otherMgr, laptop(10))
			Expect(err).To(MatchError(errors.ErrForbidden))
		})
	})

	Describe("Respond", func() {
		var submitted *request.Request

		BeforeEach(func() {
			var err error
			submitted, err = service.Submit(ctx, employee, laptop(10))
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(2 * time.Hour)
		})

		It("approves and keeps the original request time", func() {
			req, err := service.Respond(ctx, manager, submitted.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(status.RequestApproved))
			Expect(req.RespondedBy).NotTo(BeNil())
			Expect(*req.RespondedBy).To(Equal(managerID))
			Expect(req.RespondedAt).NotTo(BeNil())
			Expect(*req.RespondedAt).To(Equal(clock))
			Expect(req.RequestedAt).To(Equal(submitted.RequestedAt))

			stored, err := service.Get(ctx, admin, submitted.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(status.RequestApproved))
			Expect(stored.RequestedAt).To(Equal(submitted.RequestedAt))
		})

		It("lets an admin reject any request", func() {
			req, err := service.Respond(ctx, admin, submitted.ID, request.RespondDTO{Status: "rejected"})
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(status.RequestRejected))
		})

		It("fails with an invalid state once the request is terminal", func() {
			_, err := service.Respond(ctx, manager, submitted.ID, request.RespondDTO{Status: "Rejected"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Respond(ctx, admin, submitted.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).To(MatchError(errors.ErrRequestNotPending))
			Expect(errors.HasType(err, errors.ErrorTypeInvalidState)).To(BeTrue())

			stored, err := service.Get(ctx, admin, submitted.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(status.RequestRejected))
		})

		It("never lets a manager approve their own request", func() {
			own, err := service.Submit(ctx, manager, laptop(10))
			Expect(err).NotTo(HaveOccurred())

			repo.updateCalled = false
			_, err = service.Respond(ctx, manager, own.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).To(MatchError(errors.ErrSelfApproval))
			Expect(errors.HasType(err, errors.ErrorTypeForbidden)).To(BeTrue())
			Expect(repo.updateCalled).To(BeFalse())
		})

		It("denies the manager of another project", func() {
			_, err := service.Respond(ctx, otherMgr, submitted.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).To(MatchError(errors.ErrForbidden))
		})

		It("denies employees", func() {
			_, err := service.Respond(ctx, outsider, submitted.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).To(MatchError(errors.ErrForbidden))
		})

		It("hides the state of a terminal request from actors who cannot see it", func() {
			_, err := service.Respond(ctx, manager, submitted.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Respond(ctx, outsider, submitted.ID, request.RespondDTO{Status: "Rejected"})
			Expect(err).To(MatchError(errors.ErrForbidden))
			Expect(errors.HasType(err, errors.ErrorTypeInvalidState)).To(BeFalse())

			_, err = service.Respond(ctx, otherMgr, submitted.ID, request.RespondDTO{Status: "Rejected"})
			Expect(err).To(MatchError(errors.ErrForbidden))
		})

		It("still reports the invalid state to the requester", func() {
			_, err := service.Respond(ctx, manager, submitted.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Respond(ctx, employee, submitted.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).To(MatchError(errors.ErrRequestNotPending))
		})

		It("rejects a decision that is not terminal", func() {
			_, err := service.Respond(ctx, manager, submitted.ID, request.RespondDTO{Status: "Pending"})
			Expect(errors.HasType(err, errors.ErrorTypeValidation)).To(BeTrue())
		})

		It("reports unknown requests as not found", func() {
			_, err := service.Respond(ctx, manager, 404, request.RespondDTO{Status: "Approved"})
			Expect(err).To(MatchError(errors.ErrRequestNotFound))
		})
	})

	Describe("Delete", func() {
		It("is admin only and removes any state", func() {
			req, err := service.Submit(ctx, employee, laptop(10))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Respond(ctx, manager, req.ID, request.RespondDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, manager, req.ID)).To(MatchError(errors.ErrForbidden))
			Expect(service.Delete(ctx, admin, req.ID)).To(Succeed())

			_, err = service.Get(ctx, admin, req.ID)
			Expect(err).To(MatchError(errors.ErrRequestNotFound))
			Expect(publisher.count()).To(Equal(3))
		})
	})

	Describe("listing", func() {
		BeforeEach(func() {
			_, err := service.Submit(ctx, employee, laptop(10))
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(time.Minute)
			_, err = service.Submit(ctx, manager, laptop(10))
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(time.Minute)
			_, err = service.Submit(ctx, outsider, laptop(20))
			Expect(err).NotTo(HaveOccurred())
		})

		It("shows everything to an admin, newest first", func() {
			reqs, err := service.List(ctx, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(reqs).To(HaveLen(3))
			Expect(reqs[0].EmployeeID).To(Equal(outsiderID))
		})

		It("shows a manager their projects and their own requests", func() {
			reqs, err := service.List(ctx, manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(reqs).To(HaveLen(2))
			for _, r := range reqs {
				Expect(r.ProjectID).To(Equal(int64(10)))
			}
		})

		It("shows an employee only their own requests", func() {
			reqs, err := service.List(ctx, employee)
			Expect(err).NotTo(HaveOccurred())
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].EmployeeID).To(Equal(employeeID))
		})

		It("lists by employee for the subject or an admin", func() {
			reqs, err := service.ListByEmployee(ctx, employee, employeeID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reqs).To(HaveLen(1))

			_, err = service.ListByEmployee(ctx, outsider, employeeID)
			Expect(err).To(MatchError(errors.ErrForbidden))
		})

		It("lists by manager", func() {
			reqs, err := service.ListByManager(ctx, admin, otherMgrID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].ProjectID).To(Equal(int64(20)))

			_, err = service.ListByManager(ctx, manager, otherMgrID)
			Expect(err).To(MatchError(errors.ErrForbidden))
		})

		It("hides other people's requests from Get", func() {
			reqs, err := service.List(ctx, admin)
			Expect(err).NotTo(HaveOccurred())
			for _, r := range reqs {
				if r.EmployeeID == outsiderID {
					_, err := service.Get(ctx, employee, r.ID)
					Expect(err).To(MatchError(errors.ErrForbidden))
				}
			}
		})
	})
})
