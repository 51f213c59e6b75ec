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

// TripRequest defines the structure for trip create/update requests
type TripRequest struct {
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	TripDate    time.Time `json:"trip_date"`
	Notes       string    `json:"notes"`
}

// ListTrips lists the active company's trips.
func ListTrips(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var trips []model.Trip
	result := database.GetDB().
		Where("company_id = ?", companyID).
		Order("trip_date DESC").
		Find(&trips)
	if result.Error != nil {
		log.Error("Failed to list trips", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve trips"})
	}

	return c.JSON(http.StatusOK, trips)
}

// GetTrip retrieves a trip with its attendance roster.
func GetTrip(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var trip model.Trip
	result := database.GetDB().
		Preload("Attendance").
		Preload("Attendance.Child").
		Where("company_id = ?", companyID).
		First(&trip, c.Param("id"))
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
	}

	return c.JSON(http.StatusOK, trip)
}

// CreateTrip creates a trip in the active company.
func CreateTrip(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req TripRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	trip := model.Trip{
		CompanyID:   companyID,
		Name:        req.Name,
		Destination: req.Destination,
		TripDate:    req.TripDate,
		Notes:       req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&trip); result.Error != nil {
		log.Error("Failed to create trip", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create trip"})
	}

	log.Info("Trip created", zap.Uint("trip_id", trip.ID))
	return c.JSON(http.StatusCreated, trip)
}

// DeleteTrip removes a trip and its roster.
func DeleteTrip(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	tx := database.GetDB().Begin()
	if tx.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	result := tx.Where("id = ? AND company_id = ?", id, companyID).Delete(&model.Trip{})
	if result.Error != nil {
		tx.Rollback()
		log.Error("Failed to delete trip", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete trip"})
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
	}

	if err := tx.Where("trip_id = ?", id).Delete(&model.TripAttendance{}).Error; err != nil {
		tx.Rollback()
		log.Error("Failed to delete trip attendance", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete trip"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("Trip deleted", zap.Uint64("trip_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Trip deleted"})
}

// SetTripAttendance replaces the trip's roster with the given child
// ids. The delete and insert run in one transaction so a failed insert
// never leaves the roster half-replaced.
func SetTripAttendance(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req struct {
		ChildIDs []uint `json:"child_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var trip model.Trip
	if result := database.GetDB().Where("company_id = ?", companyID).First(&trip, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
	}

	// Every child on the roster must belong to the active company.
	if len(req.ChildIDs) > 0 {
		var count int64
		database.GetDB().Model(&model.Child{}).
			Where("id IN ? AND company_id = ?", req.ChildIDs, companyID).
			Count(&count)
		if count != int64(len(req.ChildIDs)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "roster contains unknown children"})
		}
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Where("trip_id = ?", trip.ID).Delete(&model.TripAttendance{}).Error; err != nil {
		tx.Rollback()
		log.Error("Failed to clear trip roster", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update roster"})
	}

	for _, childID := range req.ChildIDs {
		if err := tx.Create(&model.TripAttendance{TripID: trip.ID, ChildID: childID}).Error; err != nil {
			tx.Rollback()
			log.Error("Failed to add child to roster",
				zap.Uint("child_id", childID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update roster"})
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("Trip roster replaced",
		zap.Uint64("trip_id", id),
		zap.Int("children", len(req.ChildIDs)))
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Roster updated",
		"trip_id":  trip.ID,
		"children": len(req.ChildIDs),
	})
}
