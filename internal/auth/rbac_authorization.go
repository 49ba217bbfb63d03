package auth

import (
	"net/http"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/access"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

// RBACAuthorization gates whole route groups by role. Per-entity decisions
// stay in the services.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(baseHandler *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: baseHandler}
}

func (ra *RBACAuthorization) RequireRole(roles ...access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := errors.SessionFromContext(r.Context())
			if !ok || !session.Valid() {
				ra.Logger.Warn("authorization check failed: session not found in context", "path", r.URL.Path)
				ra.HandleServiceError(w, errors.NewUnauthorizedError("unauthorized", errors.ErrCodeInvalidToken))
				return
			}

			for _, role := range roles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			ra.Logger.WarnContext(r.Context(), "access denied: role not allowed",
				"actor_id", session.ActorID,
				"role", session.Role.String(),
				"path", r.URL.Path)
			ra.HandleServiceError(w, errors.ErrForbidden)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(access.RoleAdmin)
}

// RequireStaff admits admins and managers.
func (ra *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return ra.RequireRole(access.RoleAdmin, access.RoleManager)
}
