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

// ListAwards lists awards in the active company, optionally filtered by
// child.
func ListAwards(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	query := database.GetDB().Preload("Child").Where("company_id = ?", companyID)
	if childID := c.QueryParam("child_id"); childID != "" {
		query = query.Where("child_id = ?", childID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var awards []model.Award
	result := query.Order("awarded_on DESC").Find(&awards)
	if result.Error != nil {
		log.Error("Failed to list awards", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve awards"})
	}

	return c.JSON(http.StatusOK, awards)
}

// CreateAward records an award for a child in the active company.
func CreateAward(c echo.Context) error {
	log := logger.FromContext(c)

	userID, _ := currentUserID(c)
	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req struct {
		ChildID     uint      `json:"child_id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		AwardedOn   time.Time `json:"awarded_on"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ChildID == 0 || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "child_id and title are required"})
	}

	var child model.Child
	if result := database.GetDB().Where("company_id = ?", companyID).First(&child, req.ChildID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "child not found"})
	}

	if req.AwardedOn.IsZero() {
		req.AwardedOn = time.Now()
	}

	award := model.Award{
		CompanyID:   companyID,
		ChildID:     req.ChildID,
		Title:       req.Title,
		Description: req.Description,
		AwardedOn:   req.AwardedOn,
		AwardedByID: userID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&award); result.Error != nil {
		log.Error("Failed to create award", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create award"})
	}

	log.Info("Award created",
		zap.Uint("award_id", award.ID),
		zap.Uint("child_id", award.ChildID))
	return c.JSON(http.StatusCreated, award)
}

// DeleteAward removes an award from the active company.
func DeleteAward(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid award ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("id = ? AND company_id = ?", id, companyID).Delete(&model.Award{})
	if result.Error != nil {
		log.Error("Failed to delete award", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete award"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "award not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Award deleted"})
}
