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

// ListUsers lists the active company's profiles, including unapproved
// ones awaiting review.
func ListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.Profile
	result := database.GetDB().Where("company_id = ?", companyID).Order("created_at DESC").Find(&users)
	if result.Error != nil {
		log.Error("Failed to list users", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve users"})
	}

	return c.JSON(http.StatusOK, users)
}

// ApproveUser flips the approved flag on a pending profile.
func ApproveUser(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := database.GetDB().Model(&model.Profile{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("approved", true)
	if result.Error != nil {
		log.Error("Failed to approve user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to approve user"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	log.Info("User approved", zap.Uint64("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "User approved"})
}

// RejectUser deletes a pending profile. Rejection is the one flow that
// removes a profile.
func RejectUser(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().
		Where("id = ? AND company_id = ? AND approved = ?", id, companyID, false).
		Delete(&model.Profile{})
	if result.Error != nil {
		log.Error("Failed to reject user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reject user"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pending user not found"})
	}

	log.Info("User rejected", zap.Uint64("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "User rejected"})
}

// AssignRole creates or replaces the user's single role row.
// Last-writer-wins; no concurrency token.
func AssignRole(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.UserID == 0 || !permission.Role(req.Role).IsValid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and a valid role are required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var existing model.UserRole
	result := database.GetDB().Where("user_id = ?", req.UserID).First(&existing)
	if result.Error == nil {
		existing.Role = req.Role
		if err := database.GetDB().Save(&existing).Error; err != nil {
			log.Error("Failed to update role", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
		}
		log.Info("Role updated", zap.Uint("user_id", req.UserID), zap.String("role", req.Role))
		return c.JSON(http.StatusOK, echo.Map{"message": "Role updated", "user_role": existing})
	}

	row := model.UserRole{UserID: req.UserID, Role: req.Role}
	if err := database.GetDB().Create(&row).Error; err != nil {
		log.Error("Failed to assign role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign role"})
	}

	log.Info("Role assigned", zap.Uint("user_id", req.UserID), zap.String("role", req.Role))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Role assigned", "user_role": row})
}

// RemoveRole deletes the user's role row, leaving them with no role and
// therefore no access anywhere.
func RemoveRole(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("user_id = ?", id).Delete(&model.UserRole{})
	if result.Error != nil {
		log.Error("Failed to remove role", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove role"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
	}

	log.Info("Role removed", zap.Uint64("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Role removed"})
}

// SetUserTags replaces a user's notification tags with the given set.
func SetUserTags(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		UserID uint     `json:"user_id"`
		Tags   []string `json:"tags"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	for _, tag := range req.Tags {
		if !model.IsValidTag(tag) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tag: " + tag})
		}
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Where("user_id = ?", req.UserID).Delete(&model.UserTag{}).Error; err != nil {
		tx.Rollback()
		log.Error("Failed to clear user tags", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tags"})
	}

	for _, tag := range req.Tags {
		if err := tx.Create(&model.UserTag{UserID: req.UserID, Tag: tag}).Error; err != nil {
			tx.Rollback()
			log.Error("Failed to create user tag", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tags"})
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("User tags updated", zap.Uint("user_id", req.UserID), zap.Strings("tags", req.Tags))
	return c.JSON(http.StatusOK, echo.Map{"message": "Tags updated", "tags": req.Tags})
}
