package postgres

import (
	"context"
	stdErrors "errors"
	"fmt"

	errors "github.com/frahmantamala/workforce-admin/internal"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	taskDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/task"
	"github.com/frahmantamala/workforce-admin/internal/project"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

var _ project.RepositoryAPI = (*ProjectRepository)(nil)

func (r *ProjectRepository) Create(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*projectDatamodel.Project, error) {
	var rows []*projectDatamodel.Project
	err := r.db.WithContext(ctx).Order("start_date ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *ProjectRepository) ListByManager(ctx context.Context, managerID int64) ([]*projectDatamodel.Project, error) {
	var rows []*projectDatamodel.Project
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// ListByMember uses jsonb containment on postgres. Other dialects, such as
// the sqlite used in tests, filter in memory.
func (r *ProjectRepository) ListByMember(ctx context.Context, employeeID int64) ([]*projectDatamodel.Project, error) {
	if r.db.Dialector.Name() == "postgres" {
		var rows []*projectDatamodel.Project
		err := r.db.WithContext(ctx).
			Where("team_members @> ?::jsonb", fmt.Sprintf("[%d]", employeeID)).
			Order("start_date ASC, id ASC").
			Find(&rows).Error
		return rows, err
	}

	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]*projectDatamodel.Project, 0, len(all))
	for _, p := range all {
		for _, id := range p.TeamMembers {
			if id == employeeID {
				rows = append(rows, p)
				break
			}
		}
	}
	return rows, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&taskDatamodel.Task{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&projectDatamodel.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.ErrProjectNotFound
		}
		return nil
	})
}
