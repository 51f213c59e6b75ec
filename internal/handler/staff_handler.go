package handler

import (
	"net/http"
	"strconv"
	"time"

	"campadmin/internal/model"
	"campadmin/pkg/database"
	"campadmin/pkg/logger"
	"campadmin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StaffRequest defines the structure for staff create/update requests
type StaffRequest struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Position  string     `json:"position"`
	StartDate *time.Time `json:"start_date,omitempty"`
}

// ListStaff lists the active company's staff members.
func ListStaff(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var staff []model.StaffMember
	result := database.GetDB().
		Where("company_id = ?", companyID).
		Order("last_name ASC, first_name ASC").
		Find(&staff)
	if result.Error != nil {
		log.Error("Failed to list staff", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve staff"})
	}

	return c.JSON(http.StatusOK, staff)
}

// CreateStaff creates a staff record in the active company.
func CreateStaff(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req StaffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	}

	staff := model.StaffMember{
		CompanyID: companyID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Position:  req.Position,
		StartDate: req.StartDate,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&staff); result.Error != nil {
		log.Error("Failed to create staff member", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create staff member"})
	}

	log.Info("Staff member created", zap.Uint("staff_id", staff.ID))
	return c.JSON(http.StatusCreated, staff)
}

// UpdateStaff updates a staff record in the active company.
func UpdateStaff(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var staff model.StaffMember
	result := database.GetDB().Where("id = ? AND company_id = ?", id, companyID).First(&staff)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "staff member not found"})
	}

	var req StaffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.FirstName != "" {
		staff.FirstName = req.FirstName
	}
	if req.LastName != "" {
		staff.LastName = req.LastName
	}
	staff.Email = req.Email
	staff.Phone = req.Phone
	staff.Position = req.Position
	if req.StartDate != nil {
		staff.StartDate = req.StartDate
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&staff).Error; err != nil {
		log.Error("Failed to update staff member", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update staff member"})
	}

	return c.JSON(http.StatusOK, staff)
}

// DeleteStaff removes a staff record from the active company.
func DeleteStaff(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("id = ? AND company_id = ?", id, companyID).Delete(&model.StaffMember{})
	if result.Error != nil {
		log.Error("Failed to delete staff member", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete staff member"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "staff member not found"})
	}

	log.Info("Staff member deleted", zap.Uint64("staff_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Staff member deleted"})
}
