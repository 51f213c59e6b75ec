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

// DivisionRequest defines the structure for division create/update
// requests
type DivisionRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// ListDivisions lists the active company's divisions in display order.
func ListDivisions(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var divisions []model.Division
	result := database.GetDB().
		Where("company_id = ?", companyID).
		Order("sort_order ASC, name ASC").
		Find(&divisions)
	if result.Error != nil {
		log.Error("Failed to list divisions", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve divisions"})
	}

	return c.JSON(http.StatusOK, divisions)
}

// CreateDivision creates a division in the active company.
func CreateDivision(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req DivisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	division := model.Division{
		CompanyID: companyID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&division); result.Error != nil {
		log.Error("Failed to create division", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create division"})
	}

	log.Info("Division created",
		zap.String("name", division.Name),
		zap.Uint("company_id", companyID))
	return c.JSON(http.StatusCreated, division)
}

// UpdateDivision updates a division's name or sort order.
func UpdateDivision(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid division ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var division model.Division
	result := database.GetDB().Where("id = ? AND company_id = ?", id, companyID).First(&division)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "division not found"})
	}

	var req DivisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name != "" {
		division.Name = req.Name
	}
	division.SortOrder = req.SortOrder

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&division).Error; err != nil {
		log.Error("Failed to update division", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update division"})
	}

	return c.JSON(http.StatusOK, division)
}

// DeleteDivision removes a division from the active company.
func DeleteDivision(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid division ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("id = ? AND company_id = ?", id, companyID).Delete(&model.Division{})
	if result.Error != nil {
		log.Error("Failed to delete division", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete division"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "division not found"})
	}

	log.Info("Division deleted", zap.Uint64("division_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Division deleted"})
}
