package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

// RBACAuthorization gates routes by the role resolved in AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
	logger *slog.Logger
}

func NewRBACAuthorization(baseHandler *transport.BaseHandler, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: baseHandler,
		logger:      logger,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUser, ok := internal.UserFromContext(r.Context())
		if !ok {
			ra.logger.Warn("authorization check failed: user not found in context")
			ra.HandleServiceError(w, r, internal.ErrMissingToken)
			return
		}

		if !authUser.HasRole(roles...) {
			ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
				"user_id", authUser.ID,
				"role", authUser.Role,
				"required_roles", strings.Join(roles, ","))
			ra.HandleServiceError(w, r, internal.ErrInsufficientRole)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, roles...)
	}
}
