package request

import (
	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/core/common/validation"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
)

const (
	maxEquipmentLength = 200
	maxReasonLength    = 1000
)

type SubmitRequestDTO struct {
	ProjectID int64  `json:"project_id"`
	Equipment string `json:"equipment"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

func (dto SubmitRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("project_id", dto.ProjectID).Required()
	v.Field("equipment", dto.Equipment).Required().MaxLength(maxEquipmentLength)
	v.Field("quantity", dto.Quantity).Positive(errors.ErrCodeInvalidQuantity)
	v.Field("reason", dto.Reason).Required().MaxLength(maxReasonLength)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RespondDTO struct {
	Status string `json:"status"`
}

// Decision parses the requested terminal status. Pending is not a decision.
func (dto RespondDTO) Decision() (status.RequestStatus, error) {
	st, ok := status.ParseRequest(dto.Status)
	if !ok || !st.Terminal() {
		return "", errors.NewValidationFieldError("status", "status must be either 'Approved' or 'Rejected'", errors.ErrCodeInvalidStatus)
	}
	return st, nil
}

type RequestsResponse struct {
	Requests []*Request `json:"requests"`
}
