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

// ListIncidentReports lists incident reports in the active company.
func ListIncidentReports(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	query := database.GetDB().Preload("Child").Where("company_id = ?", companyID)
	if severity := c.QueryParam("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var reports []model.IncidentReport
	result := query.Order("occurred_at DESC").Find(&reports)
	if result.Error != nil {
		log.Error("Failed to list incident reports", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve reports"})
	}

	return c.JSON(http.StatusOK, reports)
}

// CreateIncidentReport files an incident report in the active company.
func CreateIncidentReport(c echo.Context) error {
	log := logger.FromContext(c)

	userID, _ := currentUserID(c)
	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req struct {
		ChildID     *uint     `json:"child_id,omitempty"`
		OccurredAt  time.Time `json:"occurred_at"`
		Location    string    `json:"location"`
		Description string    `json:"description"`
		ActionTaken string    `json:"action_taken"`
		Severity    string    `json:"severity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
	}
	if req.Severity == "" {
		req.Severity = "low"
	}
	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now()
	}

	report := model.IncidentReport{
		CompanyID:    companyID,
		ChildID:      req.ChildID,
		ReportedByID: userID,
		OccurredAt:   req.OccurredAt,
		Location:     req.Location,
		Description:  req.Description,
		ActionTaken:  req.ActionTaken,
		Severity:     req.Severity,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&report); result.Error != nil {
		log.Error("Failed to create incident report", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create report"})
	}

	log.Info("Incident report filed",
		zap.Uint("report_id", report.ID),
		zap.String("severity", report.Severity))
	return c.JSON(http.StatusCreated, report)
}

// UpdateIncidentReport amends an incident report's follow-up fields.
func UpdateIncidentReport(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var report model.IncidentReport
	result := database.GetDB().Where("id = ? AND company_id = ?", id, companyID).First(&report)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "report not found"})
	}

	var req struct {
		ActionTaken string `json:"action_taken"`
		Severity    string `json:"severity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ActionTaken != "" {
		report.ActionTaken = req.ActionTaken
	}
	if req.Severity != "" {
		report.Severity = req.Severity
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&report).Error; err != nil {
		log.Error("Failed to update incident report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update report"})
	}

	return c.JSON(http.StatusOK, report)
}

// ListDailyNotes lists daily notes in the active company, optionally
// filtered by date or child.
func ListDailyNotes(c echo.Context) error {
	log := logger.FromContext(c)

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	query := database.GetDB().Preload("Child").Where("company_id = ?", companyID)
	if date := c.QueryParam("date"); date != "" {
		query = query.Where("DATE(note_date) = ?", date)
	}
	if childID := c.QueryParam("child_id"); childID != "" {
		query = query.Where("child_id = ?", childID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var notes []model.DailyNote
	result := query.Order("note_date DESC").Find(&notes)
	if result.Error != nil {
		log.Error("Failed to list daily notes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve notes"})
	}

	return c.JSON(http.StatusOK, notes)
}

// CreateDailyNote records a daily note in the active company.
func CreateDailyNote(c echo.Context) error {
	log := logger.FromContext(c)

	userID, _ := currentUserID(c)
	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req struct {
		ChildID  *uint     `json:"child_id,omitempty"`
		NoteDate time.Time `json:"note_date"`
		Content  string    `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	if req.NoteDate.IsZero() {
		req.NoteDate = time.Now()
	}

	note := model.DailyNote{
		CompanyID: companyID,
		ChildID:   req.ChildID,
		AuthorID:  userID,
		NoteDate:  req.NoteDate,
		Content:   req.Content,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&note); result.Error != nil {
		log.Error("Failed to create daily note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create note"})
	}

	return c.JSON(http.StatusCreated, note)
}

// DeleteDailyNote removes a daily note from the active company.
func DeleteDailyNote(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid note ID"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("id = ? AND company_id = ?", id, companyID).Delete(&model.DailyNote{})
	if result.Error != nil {
		log.Error("Failed to delete daily note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete note"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted"})
}

// ListMedicationLogs lists medication administrations in the active
// company, optionally filtered by child.
func ListMedicationLogs(c echo.Context) error {
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
	var logs []model.MedicationLog
	result := query.Order("administered_at DESC").Find(&logs)
	if result.Error != nil {
		log.Error("Failed to list medication logs", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve medication logs"})
	}

	return c.JSON(http.StatusOK, logs)
}

// CreateMedicationLog records a medication administration.
func CreateMedicationLog(c echo.Context) error {
	log := logger.FromContext(c)

	userID, _ := currentUserID(c)
	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var req struct {
		ChildID        uint      `json:"child_id"`
		Medication     string    `json:"medication"`
		Dosage         string    `json:"dosage"`
		AdministeredAt time.Time `json:"administered_at"`
		Notes          string    `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ChildID == 0 || req.Medication == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "child_id and medication are required"})
	}

	var child model.Child
	if result := database.GetDB().Where("company_id = ?", companyID).First(&child, req.ChildID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "child not found"})
	}

	if req.AdministeredAt.IsZero() {
		req.AdministeredAt = time.Now()
	}

	entry := model.MedicationLog{
		CompanyID:      companyID,
		ChildID:        req.ChildID,
		AdministeredBy: userID,
		Medication:     req.Medication,
		Dosage:         req.Dosage,
		AdministeredAt: req.AdministeredAt,
		Notes:          req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&entry); result.Error != nil {
		log.Error("Failed to create medication log", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create medication log"})
	}

	log.Info("Medication administration recorded",
		zap.Uint("child_id", entry.ChildID),
		zap.String("medication", entry.Medication))
	return c.JSON(http.StatusCreated, entry)
}
