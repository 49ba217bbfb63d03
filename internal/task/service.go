package task

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	taskDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/task"
	"github.com/frahmantamala/workforce-admin/internal/progress"
)

type RepositoryAPI interface {
	Create(ctx context.Context, t *taskDatamodel.Task) error
	GetByID(ctx context.Context, id int64) (*taskDatamodel.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*taskDatamodel.Task, error)
	ListByAssignee(ctx context.Context, employeeID int64) ([]*taskDatamodel.Task, error)
	Update(ctx context.Context, t *taskDatamodel.Task) error
	Delete(ctx context.Context, id int64) error
}

// ProjectReader resolves the owning project of a task.
type ProjectReader interface {
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
}

type Service struct {
	repo     RepositoryAPI
	projects ProjectReader
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, projects ProjectReader, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		logger:   logger,
	}
}

func projectRef(p *projectDatamodel.Project) access.ProjectRef {
	return access.ProjectRef{ID: p.ID, ManagerID: p.ManagerID, TeamMembers: p.TeamMembers}
}

func (s *Service) ListByProject(ctx context.Context, session access.Session, projectID int64) ([]*Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ref := projectRef(p)
	if !access.CanView(session, ref) {
		return nil, errors.ErrForbidden
	}

	rows, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "project_id", projectID)
		return nil, err
	}
	return access.Visible(session, FromDataModelSlice(rows), func(t *Task) access.Entity {
		return t.Ref(ref)
	}), nil
}

// ListMine returns the tasks assigned to the session's actor across all
// projects.
func (s *Service) ListMine(ctx context.Context, session access.Session) ([]*Task, error) {
	if !session.Valid() {
		return nil, errors.ErrForbidden
	}
	rows, err := s.repo.ListByAssignee(ctx, session.ActorID)
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) Create(ctx context.Context, session access.Session, projectID int64, dto CreateTaskDTO) (*Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !access.CanMutate(session, access.TaskRef{Project: projectRef(p)}, access.ActionCreate) {
		s.logger.Warn("task creation denied", "project_id", projectID, "actor_id", session.ActorID)
		return nil, errors.ErrForbidden
	}

	t, err := dto.toTask(projectID)
	if err != nil {
		return nil, err
	}
	if err := checkPlacement(p, t); err != nil {
		return nil, err
	}

	row := ToDataModel(t)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create task", "error", err, "project_id", projectID)
		return nil, errors.NewInternalError("failed to create task", err)
	}

	s.logger.Info("task created", "task_id", row.ID, "project_id", projectID, "assigned_to", row.AssignedTo)
	return FromDataModel(row), nil
}

// Update applies a partial update. An assigned employee may only move the
// status; managers and admins may change any field.
func (s *Service) Update(ctx context.Context, session access.Session, id int64, dto UpdateTaskDTO) (*Task, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, row.ProjectID)
	if err != nil {
		return nil, err
	}
	t := FromDataModel(row)

	action := access.ActionUpdate
	if dto.StatusOnly() {
		action = access.ActionUpdateStatus
	}
	if !access.CanMutate(session, t.Ref(projectRef(p)), action) {
		s.logger.Warn("task update denied", "task_id", id, "actor_id", session.ActorID, "action", string(action))
		return nil, errors.ErrForbidden
	}

	if err := dto.apply(t); err != nil {
		return nil, err
	}
	if err := checkPlacement(p, t); err != nil {
		return nil, err
	}

	updated := ToDataModel(t)
	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, errors.NewInternalError("failed to update task", err)
	}

	s.logger.Info("task updated", "task_id", id, "status", updated.Status, "actor_id", session.ActorID)
	return FromDataModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, session access.Session, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.projects.GetByID(ctx, row.ProjectID)
	if err != nil {
		return err
	}
	if !access.CanMutate(session, FromDataModel(row).Ref(projectRef(p)), access.ActionDelete) {
		return errors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", id, "actor_id", session.ActorID)
	return nil
}

// Progress aggregates the project's tasks, optionally narrowed to one
// assignee. Employees may only narrow to themselves.
func (s *Service) Progress(ctx context.Context, session access.Session, projectID int64, assignee *int64) (progress.Summary, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return progress.Summary{}, err
	}
	if !access.CanView(session, projectRef(p)) {
		return progress.Summary{}, errors.ErrForbidden
	}
	if assignee != nil && session.IsEmployee() && *assignee != session.ActorID {
		s.logger.Warn("progress for another assignee denied", "project_id", projectID, "actor_id", session.ActorID, "assignee", *assignee)
		return progress.Summary{}, errors.ErrForbidden
	}
	rows, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return progress.Summary{}, err
	}
	return progress.Aggregate(FromDataModelSlice(rows), assignee), nil
}

// checkPlacement enforces that the assignee works on the project and that
// the team, when set, belongs to it.
func checkPlacement(p *projectDatamodel.Project, t *Task) error {
	if !projectRef(p).Involves(t.AssignedTo) {
		return errors.NewValidationFieldError("assigned_to",
			fmt.Sprintf("employee %d is not the manager or a member of the project", t.AssignedTo),
			errors.ErrCodeInvalidReference)
	}
	if t.TeamID == nil {
		return nil
	}
	for _, team := range p.Teams {
		if team.ID == *t.TeamID {
			return nil
		}
	}
	return errors.NewValidationFieldError("team_id", "team does not belong to the project", errors.ErrCodeInvalidReference)
}
