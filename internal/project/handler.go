package project

import (
	"context"
	"net/http"

	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

type ServiceAPI interface {
	Overviews(ctx context.Context, session access.Session) ([]*Overview, error)
	OverviewsByManager(ctx context.Context, session access.Session, managerID int64) ([]*Overview, error)
	OverviewsByEmployee(ctx context.Context, session access.Session, employeeID int64) ([]*Overview, error)
	Overview(ctx context.Context, session access.Session, id int64) (*Overview, error)
	Create(ctx context.Context, session access.Session, dto CreateProjectDTO) (*Project, error)
	Update(ctx context.Context, session access.Session, id int64, dto UpdateProjectDTO) (*Project, error)
	UpdateTeams(ctx context.Context, session access.Session, id int64, dto UpdateTeamsDTO) (*Project, error)
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

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	projects, err := h.Service.Overviews(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ProjectsResponse{Projects: projects})
}

func (h *Handler) ListManagerProjects(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	managerID, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	projects, err := h.Service.OverviewsByManager(r.Context(), session, managerID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ProjectsResponse{Projects: projects})
}

func (h *Handler) ListEmployeeProjects(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	employeeID, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	projects, err := h.Service.OverviewsByEmployee(r.Context(), session, employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ProjectsResponse{Projects: projects})
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	o, err := h.Service.Overview(r.Context(), session, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	var dto CreateProjectDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	p, err := h.Service.Create(r.Context(), session, dto)
	if err != nil {
		h.Logger.Error("CreateProject: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateProjectDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	p, err := h.Service.Update(r.Context(), session, id, dto)
	if err != nil {
		h.Logger.Error("UpdateProject: service error", "error", err, "project_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// UpdateTeams answers PUT /projects/{id}/teams with the full team list.
func (h *Handler) UpdateTeams(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateTeamsDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	p, err := h.Service.UpdateTeams(r.Context(), session, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
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
