package handler

import (
	"net/http"

	"campadmin/internal/company"
	"campadmin/internal/mailer"
	"campadmin/internal/permission"
	"campadmin/pkg/config"

	"github.com/labstack/echo/v4"
)

var (
	perms     *permission.Resolver
	companies *company.Resolver
	mail      *mailer.Mailer
	cfg       *config.Config
)

// Initialize wires the handler package to its collaborators. Must be
// called before any route is served.
func Initialize(p *permission.Resolver, c *company.Resolver, m *mailer.Mailer, conf *config.Config) {
	perms = p
	companies = c
	mail = m
	cfg = conf
}

// currentUserID reads the authenticated user id set by AuthMiddleware.
func currentUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// currentRole reads the role resolved by the page gate.
func currentRole(c echo.Context) (permission.Role, bool) {
	role, ok := c.Get("role").(permission.Role)
	return role, ok
}

// activeCompanyID resolves the company every query in the request must
// scope by. Read fresh per request so a super-admin switch is visible
// immediately.
func activeCompanyID(c echo.Context) (uint, error) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return companies.ActiveCompanyID(c.Request().Context(), userID)
}
