package request

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"sort"
	"time"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	requestDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/request"
	"github.com/frahmantamala/workforce-admin/internal/core/events"
)

type RepositoryAPI interface {
	Create(ctx context.Context, req *requestDatamodel.EquipmentRequest) error
	GetByID(ctx context.Context, id int64) (*requestDatamodel.EquipmentRequest, error)
	List(ctx context.Context) ([]*requestDatamodel.EquipmentRequest, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*requestDatamodel.EquipmentRequest, error)
	ListByProjects(ctx context.Context, projectIDs []int64) ([]*requestDatamodel.EquipmentRequest, error)
	// UpdateStatus only touches rows still Pending and returns
	// ErrRequestNotPending otherwise.
	UpdateStatus(ctx context.Context, id int64, st string, respondedBy int64, respondedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// ProjectReader resolves the project a request is filed against.
type ProjectReader interface {
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
	ListByManager(ctx context.Context, managerID int64) ([]*projectDatamodel.Project, error)
}

type Service struct {
	repo      RepositoryAPI
	projects  ProjectReader
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, projects ProjectReader, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func projectRef(p *projectDatamodel.Project) access.ProjectRef {
	return access.ProjectRef{ID: p.ID, ManagerID: p.ManagerID, TeamMembers: p.TeamMembers}
}

// projectRefFor resolves the project of an existing request. A project that
// has since been deleted yields a bare ref, which only admins and the
// requester can act on.
func (s *Service) projectRefFor(ctx context.Context, projectID int64) (access.ProjectRef, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if stdErrors.Is(err, errors.ErrProjectNotFound) {
			return access.ProjectRef{ID: projectID}, nil
		}
		return access.ProjectRef{}, err
	}
	return projectRef(project), nil
}

func requestRef(r *Request, project access.ProjectRef) access.RequestRef {
	return access.RequestRef{ID: r.ID, EmployeeID: r.EmployeeID, Project: project}
}

func (s *Service) Submit(ctx context.Context, session access.Session, dto SubmitRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("request validation failed", "error", err, "actor_id", session.ActorID)
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, dto.ProjectID)
	if err != nil {
		if !stdErrors.Is(err, errors.ErrProjectNotFound) {
			s.logger.Error("failed to load project for request", "error", err, "project_id", dto.ProjectID)
		}
		return nil, err
	}

	req := NewRequest(session.ActorID, dto, s.now())
	if !access.CanMutate(session, requestRef(req, projectRef(project)), access.ActionCreate) {
		s.logger.Warn("request submission denied",
			"actor_id", session.ActorID,
			"role", session.Role.String(),
			"project_id", dto.ProjectID)
		return nil, errors.ErrForbidden
	}

	row := ToDataModel(req)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create request", "error", err, "actor_id", session.ActorID)
		return nil, errors.NewInternalError("failed to create request", err)
	}
	req.ID = row.ID

	s.logger.Info("request submitted",
		"request_id", req.ID,
		"employee_id", req.EmployeeID,
		"project_id", req.ProjectID,
		"quantity", req.Quantity)

	s.announce(ctx, req.ID, events.RequestChangeSubmitted)
	return req, nil
}

func (s *Service) Respond(ctx context.Context, session access.Session, id int64, dto RespondDTO) (*Request, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req := FromDataModel(row)

	project, err := s.projectRefFor(ctx, req.ProjectID)
	if err != nil {
		s.logger.Error("failed to load project for request", "error", err, "request_id", id)
		return nil, err
	}
	ref := requestRef(req, project)

	// Actors who cannot see the request learn nothing about its state.
	if !access.CanView(session, ref) {
		s.logger.Warn("request response denied", "request_id", id, "actor_id", session.ActorID, "role", session.Role.String())
		return nil, errors.ErrForbidden
	}

	decision, err := dto.Decision()
	if err != nil {
		return nil, err
	}

	if !req.CanBeResponded() {
		s.logger.Warn("cannot respond to request in current status",
			"request_id", id,
			"current_status", req.Status)
		return nil, errors.ErrRequestNotPending
	}

	if !access.CanMutate(session, ref, access.ActionRespond) {
		s.logger.Warn("request response denied",
			"request_id", id,
			"actor_id", session.ActorID,
			"role", session.Role.String())
		if req.EmployeeID == session.ActorID {
			return nil, errors.ErrSelfApproval
		}
		return nil, errors.ErrForbidden
	}

	req.Respond(session.ActorID, decision, s.now())
	if err := s.repo.UpdateStatus(ctx, id, string(req.Status), *req.RespondedBy, *req.RespondedAt); err != nil {
		if stdErrors.Is(err, errors.ErrRequestNotPending) {
			return nil, err
		}
		s.logger.Error("failed to update request status", "error", err, "request_id", id)
		return nil, errors.NewInternalError("failed to update request", err)
	}

	s.logger.Info("request responded",
		"request_id", id,
		"responder_id", session.ActorID,
		"status", req.Status)

	s.announce(ctx, id, events.RequestChangeResponded)
	return req, nil
}

func (s *Service) Delete(ctx context.Context, session access.Session, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	req := FromDataModel(row)

	if !access.CanMutate(session, requestRef(req, access.ProjectRef{ID: req.ProjectID}), access.ActionDelete) {
		s.logger.Warn("request deletion denied", "request_id", id, "actor_id", session.ActorID)
		return errors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete request", "error", err, "request_id", id)
		return errors.NewInternalError("failed to delete request", err)
	}

	s.logger.Info("request deleted", "request_id", id, "actor_id", session.ActorID)
	s.announce(ctx, id, events.RequestChangeDeleted)
	return nil
}

func (s *Service) Get(ctx context.Context, session access.Session, id int64) (*Request, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req := FromDataModel(row)

	ref, err := s.projectRefFor(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if !access.CanView(session, requestRef(req, ref)) {
		return nil, errors.ErrForbidden
	}
	return req, nil
}

// List returns the requests visible to the session: everything for an
// admin, managed-project and own requests for a manager, own requests for
// an employee.
func (s *Service) List(ctx context.Context, session access.Session) ([]*Request, error) {
	var (
		rows     []*requestDatamodel.EquipmentRequest
		projects map[int64]access.ProjectRef
		err      error
	)

	switch session.Role {
	case access.RoleAdmin:
		rows, err = s.repo.List(ctx)
	case access.RoleManager:
		rows, projects, err = s.managedAndOwn(ctx, session.ActorID, session.ActorID)
	case access.RoleEmployee:
		rows, err = s.repo.ListByEmployee(ctx, session.ActorID)
	default:
		return nil, errors.ErrForbidden
	}
	if err != nil {
		s.logger.Error("failed to list requests", "error", err, "actor_id", session.ActorID)
		return nil, err
	}

	return s.visible(session, rows, projects), nil
}

func (s *Service) ListByEmployee(ctx context.Context, session access.Session, employeeID int64) ([]*Request, error) {
	if !session.IsAdmin() && session.ActorID != employeeID {
		return nil, errors.ErrForbidden
	}
	rows, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list employee requests", "error", err, "employee_id", employeeID)
		return nil, err
	}
	return sortRecent(FromDataModelSlice(rows)), nil
}

// ListByManager returns the requests filed against projects managed by
// managerID.
func (s *Service) ListByManager(ctx context.Context, session access.Session, managerID int64) ([]*Request, error) {
	if !session.IsAdmin() && session.ActorID != managerID {
		return nil, errors.ErrForbidden
	}
	rows, projects, err := s.managedAndOwn(ctx, managerID, 0)
	if err != nil {
		s.logger.Error("failed to list manager requests", "error", err, "manager_id", managerID)
		return nil, err
	}
	return s.visible(session, rows, projects), nil
}

// managedAndOwn loads requests on projects managed by managerID, plus the
// requests submitted by ownerID when it is non-zero.
func (s *Service) managedAndOwn(ctx context.Context, managerID, ownerID int64) ([]*requestDatamodel.EquipmentRequest, map[int64]access.ProjectRef, error) {
	managed, err := s.projects.ListByManager(ctx, managerID)
	if err != nil {
		return nil, nil, err
	}
	refs := make(map[int64]access.ProjectRef, len(managed))
	ids := make([]int64, 0, len(managed))
	for _, p := range managed {
		refs[p.ID] = projectRef(p)
		ids = append(ids, p.ID)
	}

	var rows []*requestDatamodel.EquipmentRequest
	if len(ids) > 0 {
		rows, err = s.repo.ListByProjects(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
	}
	if ownerID == 0 {
		return rows, refs, nil
	}

	own, err := s.repo.ListByEmployee(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	seen := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		seen[r.ID] = struct{}{}
	}
	for _, r := range own {
		if _, dup := seen[r.ID]; !dup {
			rows = append(rows, r)
		}
	}
	return rows, refs, nil
}

func (s *Service) visible(session access.Session, rows []*requestDatamodel.EquipmentRequest, projects map[int64]access.ProjectRef) []*Request {
	reqs := access.Visible(session, FromDataModelSlice(rows), func(r *Request) access.Entity {
		ref, ok := projects[r.ProjectID]
		if !ok {
			ref = access.ProjectRef{ID: r.ProjectID}
		}
		return requestRef(r, ref)
	})
	return sortRecent(reqs)
}

func sortRecent(reqs []*Request) []*Request {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].RequestedAt.After(reqs[j].RequestedAt)
	})
	return reqs
}

func (s *Service) announce(ctx context.Context, id int64, change string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewRequestsChangedEvent(id, change)); err != nil {
		s.logger.Error("failed to publish requests changed event", "error", err, "request_id", id)
	}
}
