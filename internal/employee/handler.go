package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, session access.Session) ([]*Employee, error)
	Get(ctx context.Context, session access.Session, id int64) (*Employee, error)
	Assignable(ctx context.Context, session access.Session) ([]*Employee, error)
	Managers(ctx context.Context, session access.Session) ([]*Employee, error)
	Create(ctx context.Context, session access.Session, dto CreateEmployeeDTO) (*Employee, error)
	Update(ctx context.Context, session access.Session, id int64, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, session access.Session, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	employees, err := h.Service.List(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	e, err := h.Service.Get(r.Context(), session, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ListAssignable(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	employees, err := h.Service.Assignable(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	employees, err := h.Service.Managers(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	var dto CreateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	e, err := h.Service.Create(r.Context(), session, dto)
	if err != nil {
		h.Logger.Error("CreateEmployee: service error", "error", err, "actor_id", session.ActorID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	e, err := h.Service.Update(r.Context(), session, id, dto)
	if err != nil {
		h.Logger.Error("UpdateEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), session, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
