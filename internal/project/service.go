package project

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	employeeDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/employee"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	taskDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/task"
	"github.com/frahmantamala/workforce-admin/internal/progress"
	"github.com/frahmantamala/workforce-admin/internal/task"
	"github.com/frahmantamala/workforce-admin/internal/timeline"
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *projectDatamodel.Project) error
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
	List(ctx context.Context) ([]*projectDatamodel.Project, error)
	ListByManager(ctx context.Context, managerID int64) ([]*projectDatamodel.Project, error)
	ListByMember(ctx context.Context, employeeID int64) ([]*projectDatamodel.Project, error)
	Update(ctx context.Context, p *projectDatamodel.Project) error
	// Delete removes the project together with its tasks.
	Delete(ctx context.Context, id int64) error
}

// EmployeeReader resolves manager and member references.
type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
}

// TaskReader feeds the progress shown in overviews.
type TaskReader interface {
	ListByProject(ctx context.Context, projectID int64) ([]*taskDatamodel.Task, error)
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeReader
	tasks     TaskReader
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, employees EmployeeReader, tasks TaskReader, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		tasks:     tasks,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, session access.Session) ([]*Project, error) {
	var (
		rows []*projectDatamodel.Project
		err  error
	)
	switch session.Role {
	case access.RoleAdmin:
		rows, err = s.repo.List(ctx)
	case access.RoleManager:
		rows, err = s.repo.ListByManager(ctx, session.ActorID)
	case access.RoleEmployee:
		rows, err = s.repo.ListByMember(ctx, session.ActorID)
	default:
		return nil, errors.ErrForbidden
	}
	if err != nil {
		s.logger.Error("failed to list projects", "error", err, "actor_id", session.ActorID)
		return nil, err
	}
	return visible(session, rows), nil
}

func (s *Service) ListByManager(ctx context.Context, session access.Session, managerID int64) ([]*Project, error) {
	if !session.IsAdmin() && session.ActorID != managerID {
		return nil, errors.ErrForbidden
	}
	rows, err := s.repo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return visible(session, rows), nil
}

// ListByEmployee lists the projects employeeID is a member of, narrowed to
// what the session may see.
func (s *Service) ListByEmployee(ctx context.Context, session access.Session, employeeID int64) ([]*Project, error) {
	if session.IsEmployee() && session.ActorID != employeeID {
		return nil, errors.ErrForbidden
	}
	rows, err := s.repo.ListByMember(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return visible(session, rows), nil
}

func (s *Service) Get(ctx context.Context, session access.Session, id int64) (*Project, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := FromDataModel(row)
	if !access.CanView(session, p.Ref()) {
		return nil, errors.ErrForbidden
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, session access.Session, dto CreateProjectDTO) (*Project, error) {
	if !access.CanMutate(session, access.ProjectRef{}, access.ActionCreate) {
		s.logger.Warn("project creation denied", "actor_id", session.ActorID)
		return nil, errors.ErrForbidden
	}
	in, err := dto.parse()
	if err != nil {
		return nil, err
	}

	p := &Project{
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
		StartDate:   in.start,
		EndDate:     in.end,
		Status:      in.status,
		ManagerID:   dto.ManagerID,
		TeamMembers: append([]int64{}, dto.TeamMembers...),
		Teams:       []Team{},
	}
	if err := s.checkPeople(ctx, p); err != nil {
		return nil, err
	}

	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create project", "error", err)
		return nil, errors.NewInternalError("failed to create project", err)
	}

	s.logger.Info("project created", "project_id", row.ID, "manager_id", row.ManagerID, "actor_id", session.ActorID)
	return FromDataModel(row), nil
}

// Update applies a partial update. Admins may change any field; the
// project's manager only status, dates and description.
func (s *Service) Update(ctx context.Context, session access.Session, id int64, dto UpdateProjectDTO) (*Project, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := FromDataModel(row)

	if !access.CanMutate(session, p.Ref(), access.ActionUpdate) || (dto.TouchesAdminFields() && !session.IsAdmin()) {
		s.logger.Warn("project update denied", "project_id", id, "actor_id", session.ActorID, "role", session.Role.String())
		return nil, errors.ErrForbidden
	}

	if err := dto.apply(p); err != nil {
		return nil, err
	}
	if dto.ManagerID != nil || dto.TeamMembers != nil {
		if err := s.checkPeople(ctx, p); err != nil {
			return nil, err
		}
		if err := s.checkTasks(ctx, p); err != nil {
			return nil, err
		}
	}

	updated := ToDataModel(p)
	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, errors.NewInternalError("failed to update project", err)
	}

	s.logger.Info("project updated", "project_id", id, "actor_id", session.ActorID)
	return FromDataModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, session access.Session, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanMutate(session, FromDataModel(row).Ref(), access.ActionDelete) {
		return errors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return errors.NewInternalError("failed to delete project", err)
	}
	s.logger.Info("project deleted", "project_id", id, "actor_id", session.ActorID)
	return nil
}

// UpdateTeams replaces the project's teams. Teams sent with a known id keep
// their creation time; the rest are created now.
func (s *Service) UpdateTeams(ctx context.Context, session access.Session, id int64, dto UpdateTeamsDTO) (*Project, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := FromDataModel(row)
	if !access.CanMutate(session, p.TeamRef(), access.ActionUpdate) {
		s.logger.Warn("team update denied", "project_id", id, "actor_id", session.ActorID)
		return nil, errors.ErrForbidden
	}

	existing := make(map[string]Team, len(p.Teams))
	for _, t := range p.Teams {
		existing[t.ID] = t
	}

	now := s.now()
	teams := make([]Team, 0, len(dto.Teams))
	for i, in := range dto.Teams {
		field := fmt.Sprintf("teams[%d]", i)
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, errors.NewValidationFieldError(field+".name", "team name is required", errors.ErrCodeValidationFailed)
		}
		seen := make(map[int64]struct{}, len(in.Members))
		for _, m := range in.Members {
			if _, dup := seen[m]; dup {
				return nil, errors.NewValidationFieldError(field+".members", fmt.Sprintf("member %d is listed twice", m), errors.ErrCodeDuplicateValue)
			}
			seen[m] = struct{}{}
			if !p.Ref().HasMember(m) {
				return nil, errors.NewValidationFieldError(field+".members", fmt.Sprintf("employee %d is not a member of the project", m), errors.ErrCodeInvalidReference)
			}
		}

		team := Team{ID: in.ID, ProjectID: p.ID, Name: name, Members: append([]int64{}, in.Members...), CreatedAt: now}
		if prev, ok := existing[in.ID]; ok && in.ID != "" {
			team.CreatedAt = prev.CreatedAt
		} else {
			team.ID = uuid.NewString()
		}
		teams = append(teams, team)
	}
	p.Teams = teams
	if err := s.checkTasks(ctx, p); err != nil {
		return nil, err
	}

	updated := ToDataModel(p)
	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("failed to update teams", "error", err, "project_id", id)
		return nil, errors.NewInternalError("failed to update teams", err)
	}

	s.logger.Info("project teams updated", "project_id", id, "teams", len(teams), "actor_id", session.ActorID)
	return FromDataModel(updated), nil
}

// Overview returns the project with timeline health and task progress
// evaluated now.
func (s *Service) Overview(ctx context.Context, session access.Session, id int64) (*Overview, error) {
	p, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	return s.overview(ctx, p, s.now())
}

// Overviews is List with health attached to every project.
func (s *Service) Overviews(ctx context.Context, session access.Session) ([]*Overview, error) {
	projects, err := s.List(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.overviews(ctx, projects)
}

func (s *Service) OverviewsByManager(ctx context.Context, session access.Session, managerID int64) ([]*Overview, error) {
	projects, err := s.ListByManager(ctx, session, managerID)
	if err != nil {
		return nil, err
	}
	return s.overviews(ctx, projects)
}

func (s *Service) OverviewsByEmployee(ctx context.Context, session access.Session, employeeID int64) ([]*Overview, error) {
	projects, err := s.ListByEmployee(ctx, session, employeeID)
	if err != nil {
		return nil, err
	}
	return s.overviews(ctx, projects)
}

// AtRisk returns every project whose timeline is overdue or near its
// deadline today. It runs without a session and backs the scheduled digest.
func (s *Service) AtRisk(ctx context.Context) ([]*Overview, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list projects for digest", "error", err)
		return nil, err
	}
	all, err := s.overviews(ctx, FromDataModelSlice(rows))
	if err != nil {
		return nil, err
	}
	var out []*Overview
	for _, o := range all {
		if o.Timeline.Severity == timeline.SeverityError || o.Timeline.Severity == timeline.SeverityWarning {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) overviews(ctx context.Context, projects []*Project) ([]*Overview, error) {
	now := s.now()
	out := make([]*Overview, 0, len(projects))
	for _, p := range projects {
		o, err := s.overview(ctx, p, now)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *Service) overview(ctx context.Context, p *Project, now time.Time) (*Overview, error) {
	o := &Overview{Project: p, Timeline: p.Health(now)}
	if s.tasks == nil {
		return o, nil
	}
	rows, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		s.logger.Error("failed to load tasks for progress", "error", err, "project_id", p.ID)
		return nil, err
	}
	o.Progress = progress.Aggregate(task.FromDataModelSlice(rows), nil)
	return o, nil
}

// checkPeople verifies the manager reference and team member roles.
func (s *Service) checkPeople(ctx context.Context, p *Project) error {
	if err := s.expectRole(ctx, "manager_id", p.ManagerID, access.RoleManager); err != nil {
		return err
	}
	for _, id := range p.TeamMembers {
		if err := s.expectRole(ctx, "team_members", id, access.RoleEmployee); err != nil {
			return err
		}
	}
	return nil
}

// checkTasks refuses a membership or team change that would strand a task:
// every assignee must still work on the project and every team reference
// must still resolve.
func (s *Service) checkTasks(ctx context.Context, p *Project) error {
	if s.tasks == nil || p.ID == 0 {
		return nil
	}
	rows, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		s.logger.Error("failed to load tasks for membership check", "error", err, "project_id", p.ID)
		return err
	}

	ref := p.Ref()
	teams := make(map[string]struct{}, len(p.Teams))
	for _, t := range p.Teams {
		teams[t.ID] = struct{}{}
	}

	var stranded, orphaned []string
	for _, t := range rows {
		if !ref.Involves(t.AssignedTo) {
			stranded = append(stranded, fmt.Sprintf("%d (%s)", t.ID, t.Name))
			continue
		}
		if t.TeamID != nil {
			if _, ok := teams[*t.TeamID]; !ok {
				orphaned = append(orphaned, fmt.Sprintf("%d (%s)", t.ID, t.Name))
			}
		}
	}
	if len(stranded) > 0 {
		return errors.NewValidationFieldError("team_members",
			"reassign tasks first; their assignees would leave the project: "+strings.Join(stranded, ", "),
			errors.ErrCodeMemberHasTasks)
	}
	if len(orphaned) > 0 {
		return errors.NewValidationFieldError("teams",
			"tasks still reference a removed team: "+strings.Join(orphaned, ", "),
			errors.ErrCodeMemberHasTasks)
	}
	return nil
}

func (s *Service) expectRole(ctx context.Context, field string, id int64, want access.Role) error {
	row, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrEmployeeNotFound) {
			return errors.NewNotFoundError(fmt.Sprintf("%s: employee %d not found", field, id), errors.ErrCodeEmployeeNotFound)
		}
		return err
	}
	role, _ := access.ParseRole(row.Role)
	if role != want {
		return errors.NewValidationFieldError(field, fmt.Sprintf("employee %d must have the %s role", id, want), errors.ErrCodeInvalidRole)
	}
	return nil
}

func visible(session access.Session, rows []*projectDatamodel.Project) []*Project {
	return access.Visible(session, FromDataModelSlice(rows), func(p *Project) access.Entity {
		return p.Ref()
	})
}
