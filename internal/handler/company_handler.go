package handler

import (
	"errors"
	"net/http"

	"campadmin/internal/company"
	"campadmin/internal/theme"
	"campadmin/pkg/logger"
	"campadmin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCompanies lists all active companies for the switcher. Super
// admin only.
func ListCompanies(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCompanyOperation("list")
	ctx := c.Request().Context()

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	_, isSuper, err := companies.LoadActiveCompany(ctx, userID)
	if err != nil {
		log.Error("Failed to resolve company context", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}
	if !isSuper {
		log.Warn("Non-super-admin requested company list", zap.Uint("user_id", userID))
		prometheus.RecordAuthError("company_list_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	list, err := companies.ListAvailableCompanies(ctx)
	if err != nil {
		log.Error("Failed to list companies", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list companies"})
	}

	return c.JSON(http.StatusOK, list)
}

// SwitchCompany rebinds the session to another company. Super admin
// only; the override lives in session storage and lapses with it.
func SwitchCompany(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCompanyOperation("switch")
	ctx := c.Request().Context()

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		CompanyID uint `json:"company_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse switch request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id is required"})
	}

	switched, err := companies.Switch(ctx, userID, req.CompanyID)
	if err != nil {
		switch {
		case errors.Is(err, company.ErrNotSuperAdmin):
			log.Warn("Unauthorized company switch attempt",
				zap.Uint("user_id", userID),
				zap.Uint("company_id", req.CompanyID))
			prometheus.RecordAuthError("company_switch_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		case errors.Is(err, company.ErrUnknownCompany):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		default:
			log.Error("Company switch failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "company switch failed"})
		}
	}

	response := echo.Map{
		"message": "Company switched successfully",
		"company": switched,
	}
	if palette, err := theme.Derive(switched.ThemeColor); err == nil {
		response["theme"] = palette
	}

	return c.JSON(http.StatusOK, response)
}

// GetActiveCompany returns the session's active company and its derived
// theme palette.
func GetActiveCompany(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCompanyOperation("load")
	ctx := c.Request().Context()

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	activeCompany, isSuper, err := companies.LoadActiveCompany(ctx, userID)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}
	if activeCompany == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active company"})
	}

	response := echo.Map{
		"company":     activeCompany,
		"super_admin": isSuper,
	}
	if palette, err := theme.Derive(activeCompany.ThemeColor); err == nil {
		response["theme"] = palette
	} else {
		log.Warn("Invalid company theme color",
			zap.String("color", activeCompany.ThemeColor), zap.Error(err))
	}

	return c.JSON(http.StatusOK, response)
}
