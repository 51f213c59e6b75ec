package handler

import (
	"net/http"
	"strconv"
	"time"

	"campadmin/internal/model"
	"campadmin/internal/permission"
	"campadmin/pkg/database"
	"campadmin/pkg/logger"
	"campadmin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListDivisionPermissions returns a user's division permission rows.
func ListDivisionPermissions(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var rows []model.DivisionPermission
	result := database.GetDB().Preload("Division").Where("user_id = ?", userID).Find(&rows)
	if result.Error != nil {
		log.Error("Failed to list division permissions", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve permissions"})
	}

	return c.JSON(http.StatusOK, rows)
}

// UpsertDivisionPermission creates or updates a (user, division) grant.
// Last-writer-wins at the row level.
func UpsertDivisionPermission(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		UserID     uint `json:"user_id"`
		DivisionID uint `json:"division_id"`
		CanAccess  bool `json:"can_access"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.UserID == 0 || req.DivisionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and division_id are required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var existing model.DivisionPermission
	result := database.GetDB().
		Where("user_id = ? AND division_id = ?", req.UserID, req.DivisionID).
		First(&existing)
	if result.Error == nil {
		existing.CanAccess = req.CanAccess
		if err := database.GetDB().Save(&existing).Error; err != nil {
			log.Error("Failed to update division permission", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update permission"})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Permission updated", "permission": existing})
	}

	row := model.DivisionPermission{
		UserID:     req.UserID,
		DivisionID: req.DivisionID,
		CanAccess:  req.CanAccess,
	}
	if err := database.GetDB().Create(&row).Error; err != nil {
		log.Error("Failed to create division permission", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create permission"})
	}

	log.Info("Division permission granted",
		zap.Uint("user_id", req.UserID),
		zap.Uint("division_id", req.DivisionID),
		zap.Bool("can_access", req.CanAccess))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Permission created", "permission": row})
}

// RevokeDivisionPermission deletes a (user, division) row. Absence of a
// row already means no access, so deletion and can_access=false are
// equivalent for the resolver.
func RevokeDivisionPermission(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}
	divisionID, err := strconv.ParseUint(c.Param("division_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid division ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().
		Where("user_id = ? AND division_id = ?", userID, divisionID).
		Delete(&model.DivisionPermission{})
	if result.Error != nil {
		log.Error("Failed to revoke division permission", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to revoke permission"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "permission not found"})
	}

	log.Info("Division permission revoked",
		zap.Uint64("user_id", userID),
		zap.Uint64("division_id", divisionID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Permission revoked"})
}

// ListRolePermissions returns the page grants, optionally filtered by
// role.
func ListRolePermissions(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB()
	if role := c.QueryParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var rows []model.RolePermission
	result := query.Order("role ASC, page ASC").Find(&rows)
	if result.Error != nil {
		log.Error("Failed to list role permissions", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve permissions"})
	}

	return c.JSON(http.StatusOK, rows)
}

// UpsertRolePermission creates or updates a (role, page) grant.
func UpsertRolePermission(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Role      string `json:"role"`
		Page      string `json:"page"`
		CanAccess bool   `json:"can_access"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !permission.Role(req.Role).IsValid() || req.Page == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid role and page are required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var existing model.RolePermission
	result := database.GetDB().Where("role = ? AND page = ?", req.Role, req.Page).First(&existing)
	if result.Error == nil {
		existing.CanAccess = req.CanAccess
		if err := database.GetDB().Save(&existing).Error; err != nil {
			log.Error("Failed to update role permission", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update permission"})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Permission updated", "permission": existing})
	}

	row := model.RolePermission{Role: req.Role, Page: req.Page, CanAccess: req.CanAccess}
	if err := database.GetDB().Create(&row).Error; err != nil {
		log.Error("Failed to create role permission", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create permission"})
	}

	log.Info("Role permission set",
		zap.String("role", req.Role),
		zap.String("page", req.Page),
		zap.Bool("can_access", req.CanAccess))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Permission created", "permission": row})
}
