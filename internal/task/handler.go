package task

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/progress"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

type ServiceAPI interface {
	ListByProject(ctx context.Context, session access.Session, projectID int64) ([]*Task, error)
	ListMine(ctx context.Context, session access.Session) ([]*Task, error)
	Create(ctx context.Context, session access.Session, projectID int64, dto CreateTaskDTO) (*Task, error)
	Update(ctx context.Context, session access.Session, id int64, dto UpdateTaskDTO) (*Task, error)
	Delete(ctx context.Context, session access.Session, id int64) error
	Progress(ctx context.Context, session access.Session, projectID int64, assignee *int64) (progress.Summary, error)
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

func (h *Handler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	projectID, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	tasks, err := h.Service.ListByProject(r.Context(), session, projectID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TasksResponse{Tasks: tasks})
}

func (h *Handler) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	tasks, err := h.Service.ListMine(r.Context(), session)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TasksResponse{Tasks: tasks})
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	projectID, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	var dto CreateTaskDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	t, err := h.Service.Create(r.Context(), session, projectID, dto)
	if err != nil {
		h.Logger.Error("CreateTask: service error", "error", err, "project_id", projectID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateTaskDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	t, err := h.Service.Update(r.Context(), session, id, dto)
	if err != nil {
		h.Logger.Error("UpdateTask: service error", "error", err, "task_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
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

// GetProgress answers GET /projects/{id}/progress[?assignee=N].
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	projectID, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var assignee *int64
	if raw := r.URL.Query().Get("assignee"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid assignee")
			return
		}
		assignee = &id
	}

	summary, err := h.Service.Progress(r.Context(), session, projectID, assignee)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
