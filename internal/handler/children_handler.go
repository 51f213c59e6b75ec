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

// ChildRequest defines the structure for child create/update requests
type ChildRequest struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	DivisionID   *uint      `json:"division_id,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Bunk         string     `json:"bunk"`
	GuardianName string     `json:"guardian_name"`
	GuardianTel  string     `json:"guardian_phone"`
	Allergies    string     `json:"allergies"`
	Notes        string     `json:"notes"`
}

// ListChildren lists campers in the active company, filtered to the
// caller's permitted divisions. Admin and specialist see everything; a
// user with no division grants sees zero rows, not all rows.
func ListChildren(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	userID, _ := currentUserID(c)
	role, ok := currentRole(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	filter := permission.DivisionFilter(role, perms.DivisionGrants(ctx, userID))

	query := database.GetDB().Preload("Division").Where("company_id = ?", companyID)
	query = permission.ScopeByDivisions(query, filter)

	if divisionID := c.QueryParam("division_id"); divisionID != "" {
		query = query.Where("division_id = ?", divisionID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var children []model.Child
	result := query.Order("last_name ASC, first_name ASC").Find(&children)
	if result.Error != nil {
		log.Error("Failed to list children", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve children"})
	}

	return c.JSON(http.StatusOK, children)
}

// GetChild retrieves a single child, subject to the division filter.
func GetChild(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	id := c.Param("id")
	userID, _ := currentUserID(c)
	role, ok := currentRole(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var child model.Child
	result := database.GetDB().Preload("Division").
		Where("company_id = ?", companyID).
		First(&child, id)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "child not found"})
	}

	if child.DivisionID != nil {
		grants := perms.DivisionGrants(ctx, userID)
		if !permission.CanAccessDivision(role, grants, *child.DivisionID) {
			log.Warn("Division access denied",
				zap.Uint("user_id", userID),
				zap.Uint("division_id", *child.DivisionID))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
	}

	return c.JSON(http.StatusOK, child)
}

// CreateChild creates a camper record in the active company.
func CreateChild(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	userID, _ := currentUserID(c)
	role, ok := currentRole(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req ChildRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	}

	// Assigning into a division requires access to that division.
	if req.DivisionID != nil {
		grants := perms.DivisionGrants(ctx, userID)
		if !permission.CanAccessDivision(role, grants, *req.DivisionID) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied for division"})
		}
	}

	child := model.Child{
		CompanyID:    companyID,
		DivisionID:   req.DivisionID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  req.DateOfBirth,
		Bunk:         req.Bunk,
		GuardianName: req.GuardianName,
		GuardianTel:  req.GuardianTel,
		Allergies:    req.Allergies,
		Notes:        req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&child); result.Error != nil {
		log.Error("Failed to create child", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create child"})
	}

	log.Info("Child created",
		zap.Uint("child_id", child.ID),
		zap.Uint("company_id", companyID))
	return c.JSON(http.StatusCreated, child)
}

// UpdateChild updates a camper record, subject to the division filter
// on both the current and the requested division.
func UpdateChild(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid child ID"})
	}

	userID, _ := currentUserID(c)
	role, ok := currentRole(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var child model.Child
	result := database.GetDB().Where("company_id = ?", companyID).First(&child, id)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "child not found"})
	}

	grants := perms.DivisionGrants(ctx, userID)
	if child.DivisionID != nil && !permission.CanAccessDivision(role, grants, *child.DivisionID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	var req ChildRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.DivisionID != nil && !permission.CanAccessDivision(role, grants, *req.DivisionID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied for division"})
	}

	if req.FirstName != "" {
		child.FirstName = req.FirstName
	}
	if req.LastName != "" {
		child.LastName = req.LastName
	}
	if req.DivisionID != nil {
		child.DivisionID = req.DivisionID
	}
	if req.DateOfBirth != nil {
		child.DateOfBirth = req.DateOfBirth
	}
	child.Bunk = req.Bunk
	child.GuardianName = req.GuardianName
	child.GuardianTel = req.GuardianTel
	child.Allergies = req.Allergies
	child.Notes = req.Notes

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&child).Error; err != nil {
		log.Error("Failed to update child", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update child"})
	}

	return c.JSON(http.StatusOK, child)
}

// DeleteChild removes a camper record, subject to the division filter.
func DeleteChild(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid child ID"})
	}

	userID, _ := currentUserID(c)
	role, ok := currentRole(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var child model.Child
	result := database.GetDB().Where("company_id = ?", companyID).First(&child, id)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "child not found"})
	}

	if child.DivisionID != nil {
		grants := perms.DivisionGrants(ctx, userID)
		if !permission.CanAccessDivision(role, grants, *child.DivisionID) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := database.GetDB().Delete(&child).Error; err != nil {
		log.Error("Failed to delete child", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete child"})
	}

	log.Info("Child deleted", zap.Uint64("child_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Child deleted"})
}
