package handler

import (
	"net/http"
	"time"

	"campadmin/internal/model"
	"campadmin/internal/permission"
	"campadmin/internal/theme"
	"campadmin/pkg/database"
	"campadmin/pkg/jwtutil"
	"campadmin/pkg/logger"
	"campadmin/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new unapproved profile. The account stays locked
// out until an administrator approves it.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		FullName    string `json:"full_name"`
		CompanySlug string `json:"company,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		log.Error("Invalid registration data",
			zap.String("email", req.Email),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	// Check if user already exists
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.Profile
	result := database.GetDB().Where("email = ?", req.Email).First(&existing)
	if result.Error == nil {
		log.Error("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	profile := model.Profile{
		Email:    req.Email,
		FullName: req.FullName,
		Password: string(hashedPassword),
		Approved: false,
	}

	// An invitation link carries the company slug; bind the profile to
	// that company at sign-up.
	if req.CompanySlug != "" {
		var comp model.Company
		if result := database.GetDB().Where("slug = ? AND active = ?", req.CompanySlug, true).First(&comp); result.Error == nil {
			profile.CompanyID = &comp.ID
		} else {
			log.Warn("Registration with unknown company slug", zap.String("slug", req.CompanySlug))
		}
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&profile); result.Error != nil {
		log.Error("Failed to create profile", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered, pending approval", zap.String("email", profile.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration received. An administrator must approve your account before you can sign in.",
		"user": map[string]interface{}{
			"id":    profile.ID,
			"email": profile.Email,
		},
	})
}

// Login authenticates a user. Unapproved accounts are rejected with a
// distinct pending-approval error so clients can show the notice.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.Profile
	result := database.GetDB().Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !user.Approved {
		log.Warn("Unapproved account login attempt", zap.String("email", req.Email))
		prometheus.RecordAuthError("unapproved")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account pending approval"})
	}

	activeCompany, isSuper, err := companies.LoadActiveCompany(c.Request().Context(), user.ID)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		prometheus.RecordAuthError("company_resolution_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, isSuper)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Bool("super_admin", isSuper))

	response := echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":          user.ID,
			"email":       user.Email,
			"full_name":   user.FullName,
			"super_admin": isSuper,
		},
	}
	if activeCompany != nil {
		response["company"] = activeCompany
	}

	return c.JSON(http.StatusOK, response)
}

// Logout drops the session company override so the next login starts
// from the home company.
func Logout(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if err := companies.ClearOverride(c.Request().Context(), userID); err != nil {
		log.Warn("Failed to clear company override on logout", zap.Error(err))
	}
	prometheus.DecreaseActiveTokens()

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the caller's profile, role, company context, division
// filter and theme palette in one round trip.
func Me(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.Profile
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		log.Error("Profile not found", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
	}

	activeCompany, isSuper, err := companies.LoadActiveCompany(ctx, userID)
	if err != nil {
		log.Error("Failed to resolve active company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve company"})
	}

	response := echo.Map{
		"user": map[string]interface{}{
			"id":          user.ID,
			"email":       user.Email,
			"full_name":   user.FullName,
			"approved":    user.Approved,
			"super_admin": isSuper,
		},
	}

	if role, ok := perms.ResolveRole(ctx, userID); ok {
		response["role"] = role
		grants := perms.DivisionGrants(ctx, userID)
		// nil means unfiltered; serialize the distinction explicitly.
		filter := permission.DivisionFilter(role, grants)
		response["division_filter"] = map[string]interface{}{
			"all":          filter == nil,
			"division_ids": filter,
		}
	}

	if activeCompany != nil {
		response["company"] = activeCompany
		if palette, err := theme.Derive(activeCompany.ThemeColor); err == nil {
			response["theme"] = palette
		} else {
			log.Warn("Invalid company theme color",
				zap.String("color", activeCompany.ThemeColor), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, response)
}
