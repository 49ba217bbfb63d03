package request

import (
	"time"

	"github.com/frahmantamala/workforce-admin/internal/core/status"
	requestDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/request"
)

type Request struct {
	ID          int64                `json:"id"`
	EmployeeID  int64                `json:"employee_id"`
	ProjectID   int64                `json:"project_id"`
	Equipment   string               `json:"equipment"`
	Quantity    int                  `json:"quantity"`
	Reason      string               `json:"reason"`
	Status      status.RequestStatus `json:"status"`
	RequestedAt time.Time            `json:"requested_at"`
	RespondedBy *int64               `json:"responded_by,omitempty"`
	RespondedAt *time.Time           `json:"responded_at,omitempty"`
}

func NewRequest(employeeID int64, dto SubmitRequestDTO, now time.Time) *Request {
	return &Request{
		EmployeeID:  employeeID,
		ProjectID:   dto.ProjectID,
		Equipment:   dto.Equipment,
		Quantity:    dto.Quantity,
		Reason:      dto.Reason,
		Status:      status.RequestPending,
		RequestedAt: now,
	}
}

func (r *Request) CanBeResponded() bool {
	return r.Status == status.RequestPending
}

// Respond moves a pending request to its terminal state. It is the only
// place the responder fields are set.
func (r *Request) Respond(responderID int64, decision status.RequestStatus, at time.Time) {
	r.Status = decision
	r.RespondedBy = &responderID
	r.RespondedAt = &at
}

func ToDataModel(r *Request) *requestDatamodel.EquipmentRequest {
	return &requestDatamodel.EquipmentRequest{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		ProjectID:   r.ProjectID,
		Equipment:   r.Equipment,
		Quantity:    r.Quantity,
		Reason:      r.Reason,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
		RespondedBy: r.RespondedBy,
		RespondedAt: r.RespondedAt,
	}
}

func FromDataModel(r *requestDatamodel.EquipmentRequest) *Request {
	st, ok := status.ParseRequest(r.Status)
	if !ok {
		st = status.RequestStatus(r.Status)
	}
	return &Request{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		ProjectID:   r.ProjectID,
		Equipment:   r.Equipment,
		Quantity:    r.Quantity,
		Reason:      r.Reason,
		Status:      st,
		RequestedAt: r.RequestedAt,
		RespondedBy: r.RespondedBy,
		RespondedAt: r.RespondedAt,
	}
}

func FromDataModelSlice(rows []*requestDatamodel.EquipmentRequest) []*Request {
	result := make([]*Request, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
