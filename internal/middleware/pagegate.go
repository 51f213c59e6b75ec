package middleware

import (
	"net/http"

	"campadmin/internal/permission"
	"campadmin/pkg/logger"
	"campadmin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PageGate gates a route group behind the approval check and the
// (role, page) permission lookup. The checks run on every request, so a
// role or permission change takes effect on the next navigation; no
// decision is cached. Unapproved users and users without a role are
// denied; a lookup failure denies the same way and is only
// distinguished in the logs.
func PageGate(resolver *permission.Resolver, page string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			ctx := c.Request().Context()

			userID, ok := c.Get("user_id").(uint)
			if !ok {
				prometheus.RecordAuthError("missing_user_context")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			if !resolver.IsApproved(ctx, userID) {
				log.Warn("Unapproved account denied",
					zap.Uint("user_id", userID),
					zap.String("page", page))
				prometheus.RecordAuthError("unapproved")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account pending approval"})
			}

			role, ok := resolver.ResolveRole(ctx, userID)
			if !ok {
				log.Warn("User without role denied",
					zap.Uint("user_id", userID),
					zap.String("page", page))
				prometheus.RecordPermissionDecision(false, page)
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}

			if !resolver.CanAccessPage(ctx, role, page) {
				log.Warn("Page access denied",
					zap.Uint("user_id", userID),
					zap.String("role", string(role)),
					zap.String("page", page))
				prometheus.RecordPermissionDecision(false, page)
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}

			prometheus.RecordPermissionDecision(true, page)
			c.Set("role", role)

			return next(c)
		}
	}
}
