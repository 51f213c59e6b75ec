package handler

import (
	"net/http"
	"time"

	"campadmin/internal/mailer"
	"campadmin/internal/model"
	"campadmin/internal/permission"
	"campadmin/pkg/database"
	"campadmin/pkg/logger"
	"campadmin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// requireAdmin re-validates the caller's role against the store rather
// than trusting anything in the token. Returns false after writing the
// error response.
func requireAdmin(c echo.Context) (uint, bool) {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	userID, ok := currentUserID(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		return 0, false
	}

	role, ok := perms.ResolveRole(ctx, userID)
	if !ok || role != permission.RoleAdmin {
		log.Warn("Admin-only function denied",
			zap.Uint("user_id", userID),
			zap.String("role", string(role)))
		prometheus.RecordAuthError("function_denied")
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
		return 0, false
	}

	return userID, true
}

// CreateUser provisions a user on behalf of an administrator: profile
// (approved up front) and role row in one transaction.
func CreateUser(c echo.Context) error {
	log := logger.FromContext(c)

	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" || !permission.Role(req.Role).IsValid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and a valid role are required"})
	}

	companyID, err := activeCompanyID(c)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	var existing model.Profile
	if result := database.GetDB().Where("email = ?", req.Email).First(&existing); result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	profile := model.Profile{
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  string(hashedPassword),
		Approved:  true,
		CompanyID: &companyID,
	}
	if result := tx.Create(&profile); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create profile", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	if result := tx.Create(&model.UserRole{UserID: profile.ID, Role: req.Role}); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create role row", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("User provisioned",
		zap.String("email", profile.Email),
		zap.String("role", req.Role),
		zap.Uint("company_id", companyID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user": map[string]interface{}{
			"id":        profile.ID,
			"email":     profile.Email,
			"full_name": profile.FullName,
			"role":      req.Role,
		},
	})
}

// SendBulkEmail sends a message to the union of tag members and
// explicit recipient ids. The attempt is logged before dispatch; with
// no SMTP configured the log row carries status "logged" and nothing is
// sent, so callers must not assume delivery.
func SendBulkEmail(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Subject       string   `json:"subject"`
		Message       string   `json:"message"`
		RecipientTags []string `json:"recipientTags"`
		RecipientIDs  []uint   `json:"recipientIds"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Subject == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject and message are required"})
	}
	for _, tag := range req.RecipientTags {
		if !model.IsValidTag(tag) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tag: " + tag})
		}
	}

	// Resolve the recipient union: tag members plus explicit ids,
	// deduplicated.
	recipientIDs := map[uint]struct{}{}
	if len(req.RecipientTags) > 0 {
		var tagRows []model.UserTag
		if result := database.GetDB().Where("tag IN ?", req.RecipientTags).Find(&tagRows); result.Error != nil {
			log.Error("Failed to resolve recipient tags", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve recipients"})
		}
		for _, row := range tagRows {
			recipientIDs[row.UserID] = struct{}{}
		}
	}
	for _, id := range req.RecipientIDs {
		recipientIDs[id] = struct{}{}
	}

	if len(recipientIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no recipients resolved"})
	}

	ids := make([]uint, 0, len(recipientIDs))
	for id := range recipientIDs {
		ids = append(ids, id)
	}

	var recipients []model.Profile
	if result := database.GetDB().Where("id IN ?", ids).Find(&recipients); result.Error != nil {
		log.Error("Failed to load recipients", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve recipients"})
	}

	// Write the log row before any dispatch so the attempt is always
	// auditable.
	entry := model.EmailLog{
		SenderID:       userID,
		Subject:        req.Subject,
		Body:           req.Message,
		RecipientCount: len(recipients),
		Status:         "logged",
	}
	if result := database.GetDB().Create(&entry); result.Error != nil {
		log.Error("Failed to log email attempt", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to log email"})
	}

	status := "logged"
	var sendErr error
	if mail.Configured() {
		status = "sent"
		data := mailer.MessageData{Subject: req.Subject, Title: req.Subject, Message: req.Message}
		for _, recipient := range recipients {
			if err := mail.Send(recipient.Email, req.Subject, data); err != nil {
				status = "failed"
				sendErr = err
				log.Error("Failed to send email",
					zap.String("to", recipient.Email), zap.Error(err))
				break
			}
		}
	}

	update := map[string]interface{}{"status": status}
	if sendErr != nil {
		update["error_detail"] = sendErr.Error()
	}
	if err := database.GetDB().Model(&entry).Updates(update).Error; err != nil {
		log.Error("Failed to update email log", zap.Error(err))
	}
	prometheus.RecordEmailOperation(status)

	log.Info("Bulk email processed",
		zap.Int("recipients", len(recipients)),
		zap.String("status", status))
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Email processed",
		"status":     status,
		"recipients": len(recipients),
		"log_id":     entry.ID,
	})
}

// SendUserInvitation emails a signup link scoped to a company. Admin
// only.
func SendUserInvitation(c echo.Context) error {
	log := logger.FromContext(c)

	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	var req struct {
		Email     string `json:"email"`
		CompanyID uint   `json:"company_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and company_id are required"})
	}

	var comp model.Company
	if result := database.GetDB().Where("active = ?", true).First(&comp, req.CompanyID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	}

	if !mail.Configured() {
		prometheus.RecordEmailOperation("logged")
		return c.JSON(http.StatusAccepted, echo.Map{
			"message": "Invitation recorded; mail delivery is not configured",
		})
	}

	if err := mail.SendInvitation(req.Email, comp.Name, comp.Slug); err != nil {
		log.Error("Failed to send invitation", zap.String("to", req.Email), zap.Error(err))
		prometheus.RecordEmailOperation("failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send invitation"})
	}

	prometheus.RecordEmailOperation("sent")
	log.Info("Invitation sent",
		zap.String("to", req.Email),
		zap.String("company", comp.Name))
	return c.JSON(http.StatusOK, echo.Map{"message": "Invitation sent"})
}
