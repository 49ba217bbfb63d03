package postgres

import (
	"context"
	stdErrors "errors"

	errors "github.com/frahmantamala/workforce-admin/internal"
	taskDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/task"
	"github.com/frahmantamala/workforce-admin/internal/task"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var _ task.RepositoryAPI = (*TaskRepository)(nil)

func (r *TaskRepository) Create(ctx context.Context, t *taskDatamodel.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]*taskDatamodel.Task, error) {
	var rows []*taskDatamodel.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("deadline ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, employeeID int64) ([]*taskDatamodel.Task, error) {
	var rows []*taskDatamodel.Task
	err := r.db.WithContext(ctx).
		Where("assigned_to = ?", employeeID).
		Order("deadline ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *TaskRepository) Update(ctx context.Context, t *taskDatamodel.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&taskDatamodel.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrTaskNotFound
	}
	return nil
}
