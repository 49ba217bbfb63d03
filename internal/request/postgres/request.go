package postgres

import (
	"context"
	stdErrors "errors"
	"time"

	errors "github.com/frahmantamala/workforce-admin/internal"
	requestDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/request"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
	"github.com/frahmantamala/workforce-admin/internal/request"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.RepositoryAPI {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *requestDatamodel.EquipmentRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*requestDatamodel.EquipmentRequest, error) {
	var req requestDatamodel.EquipmentRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) List(ctx context.Context) ([]*requestDatamodel.EquipmentRequest, error) {
	var reqs []*requestDatamodel.EquipmentRequest
	err := r.db.WithContext(ctx).Order("requested_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*requestDatamodel.EquipmentRequest, error) {
	var reqs []*requestDatamodel.EquipmentRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) ListByProjects(ctx context.Context, projectIDs []int64) ([]*requestDatamodel.EquipmentRequest, error) {
	var reqs []*requestDatamodel.EquipmentRequest
	if len(projectIDs) == 0 {
		return reqs, nil
	}
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// UpdateStatus is conditional on the row still being Pending, so two
// concurrent responders cannot both succeed.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, st string, respondedBy int64, respondedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&requestDatamodel.EquipmentRequest{}).
		Where("id = ? AND status = ?", id, string(status.RequestPending)).
		Updates(map[string]interface{}{
			"status":       st,
			"responded_by": respondedBy,
			"responded_at": respondedAt,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return errors.ErrRequestNotPending
	}
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&requestDatamodel.EquipmentRequest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrRequestNotFound
	}
	return nil
}
