package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	employeeDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/employee"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error)
	List(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
	Delete(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	CodeTaken(ctx context.Context, code string) (bool, error)
	MaxID(ctx context.Context) (int64, error)
}

// ProjectReader finds the projects that reference an employee.
type ProjectReader interface {
	ListByManager(ctx context.Context, managerID int64) ([]*projectDatamodel.Project, error)
	ListByMember(ctx context.Context, employeeID int64) ([]*projectDatamodel.Project, error)
}

type Service struct {
	repo       RepositoryAPI
	projects   ProjectReader
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, projects ProjectReader, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		projects:   projects,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, session access.Session) ([]*Employee, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}
	return access.Visible(session, FromDataModelSlice(rows), func(e *Employee) access.Entity {
		return e.Ref()
	}), nil
}

func (s *Service) Get(ctx context.Context, session access.Session, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e := FromDataModel(row)
	if !access.CanView(session, e.Ref()) {
		return nil, errors.ErrForbidden
	}
	return e, nil
}

// Assignable lists the active employees that may be added to teams or
// given tasks.
func (s *Service) Assignable(ctx context.Context, session access.Session) ([]*Employee, error) {
	if !session.IsAdmin() && !session.IsManager() {
		return nil, errors.ErrForbidden
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return access.AssignableEmployees(FromDataModelSlice(rows), (*Employee).Ref), nil
}

// Managers lists the active managers a project can be handed to.
func (s *Service) Managers(ctx context.Context, session access.Session) ([]*Employee, error) {
	if !session.IsAdmin() && !session.IsManager() {
		return nil, errors.ErrForbidden
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return access.AssignableManagers(FromDataModelSlice(rows), (*Employee).Ref), nil
}

func (s *Service) Create(ctx context.Context, session access.Session, dto CreateEmployeeDTO) (*Employee, error) {
	if !access.CanMutate(session, access.EmployeeRef{}, access.ActionCreate) {
		s.logger.Warn("employee creation denied", "actor_id", session.ActorID)
		return nil, errors.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := normalizeEmail(dto.Email)
	if taken, err := s.repo.EmailTaken(ctx, email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, errors.ErrEmailTaken
	}

	code := strings.TrimSpace(dto.EmployeeCode)
	if code == "" {
		generated, err := s.nextCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	} else if taken, err := s.repo.CodeTaken(ctx, code); err != nil {
		return nil, err
	} else if taken {
		return nil, errors.ErrEmployeeCodeTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	role, _ := access.ParseRole(dto.Role)
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}

	e := &Employee{
		EmployeeCode: code,
		Name:         strings.TrimSpace(dto.Name),
		Email:        email,
		Designation:  dto.Designation,
		Department:   dto.Department,
		Role:         role,
		IsActive:     active,
		PasswordHash: string(hash),
	}
	row := ToDataModel(e)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", email)
		return nil, errors.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", row.ID, "employee_code", code, "role", role.String())
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, session access.Session, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if !access.CanMutate(session, access.EmployeeRef{ID: id}, access.ActionUpdate) {
		return nil, errors.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil {
		email := normalizeEmail(*dto.Email)
		if taken, err := s.repo.EmailTaken(ctx, email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, errors.ErrEmailTaken
		}
		row.Email = email
	}
	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Designation != nil {
		row.Designation = *dto.Designation
	}
	if dto.Department != nil {
		row.Department = *dto.Department
	}
	if dto.Role != nil {
		role, _ := access.ParseRole(*dto.Role)
		if role.String() != row.Role {
			if err := s.checkUnreferenced(ctx, id, "change the role of"); err != nil {
				return nil, err
			}
		}
		row.Role = role.String()
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, errors.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, errors.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id, "actor_id", session.ActorID)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, session access.Session, id int64) error {
	if !access.CanMutate(session, access.EmployeeRef{ID: id}, access.ActionDelete) {
		return errors.ErrForbidden
	}
	if id == session.ActorID {
		return errors.NewValidationError("You cannot delete your own account", errors.ErrCodeValidationFailed)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.checkUnreferenced(ctx, id, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("employee deleted", "employee_id", id, "actor_id", session.ActorID)
	return nil
}

// checkUnreferenced fails with ErrEmployeeInUse while id manages a project
// or sits in its team, since a project's manager must hold the manager role
// and its members the employee role.
func (s *Service) checkUnreferenced(ctx context.Context, id int64, verb string) error {
	if s.projects == nil {
		return nil
	}
	managed, err := s.projects.ListByManager(ctx, id)
	if err != nil {
		s.logger.Error("failed to load managed projects", "error", err, "employee_id", id)
		return err
	}
	member, err := s.projects.ListByMember(ctx, id)
	if err != nil {
		s.logger.Error("failed to load project memberships", "error", err, "employee_id", id)
		return err
	}
	if len(managed) == 0 && len(member) == 0 {
		return nil
	}

	names := make([]string, 0, len(managed)+len(member))
	for _, p := range append(managed, member...) {
		names = append(names, p.Name)
	}
	s.logger.Warn("employee still referenced by projects", "employee_id", id, "projects", len(names))
	appErr := *errors.ErrEmployeeInUse
	appErr.Message = fmt.Sprintf("Cannot %s an employee referenced by projects: %s", verb, strings.Join(names, ", "))
	return &appErr
}

// nextCode derives EMP-#### from the highest id, skipping codes already in
// use.
func (s *Service) nextCode(ctx context.Context) (string, error) {
	maxID, err := s.repo.MaxID(ctx)
	if err != nil {
		return "", err
	}
	for n := maxID + 1; ; n++ {
		code := fmt.Sprintf("EMP-%04d", n)
		taken, err := s.repo.CodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
