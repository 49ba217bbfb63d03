package request

import (
	"context"
	"net/http"

	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, session access.Session, dto SubmitRequestDTO) (*Request, error)
	Respond(ctx context.Context, session access.Session, id int64, dto RespondDTO) (*Request, error)
	Delete(ctx context.Context, session access.Session, id int64) error
	Get(ctx context.Context, session access.Session, id int64) (*Request, error)
	List(ctx context.Context, session access.Session) ([]*Request, error)
	ListByEmployee(ctx context.Context, session access.Session, employeeID int64) ([]*Request, error)
	ListByManager(ctx context.Context, session access.Session, managerID int64) ([]*Request, error)
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

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}

	var dto SubmitRequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	req, err := h.Service.Submit(r.Context(), session, dto)
	if err != nil {
		h.Logger.Error("SubmitRequest: service error", "error", err, "actor_id", session.ActorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var dto RespondDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	req, err := h.Service.Respond(r.Context(), session, id, dto)
	if err != nil {
		h.Logger.Error("RespondToRequest: service error", "error", err, "request_id", id, "actor_id", session.ActorID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("RespondToRequest: request responded", "request_id", id, "status", req.Status, "actor_id", session.ActorID)
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), session, id); err != nil {
		h.Logger.Error("DeleteRequest: service error", "error", err, "request_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	req, err := h.Service.Get(r.Context(), session, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}

	reqs, err := h.Service.List(r.Context(), session)
	if err != nil {
		h.Logger.Error("ListRequests: service error", "error", err, "actor_id", session.ActorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: reqs})
}

func (h *Handler) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	employeeID, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	reqs, err := h.Service.ListByEmployee(r.Context(), session, employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: reqs})
}

func (h *Handler) ListManagerRequests(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	managerID, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	reqs, err := h.Service.ListByManager(r.Context(), session, managerID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: reqs})
}
