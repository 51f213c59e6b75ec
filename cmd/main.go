package main

import (
	"campadmin/internal/company"
	"campadmin/internal/handler"
	"campadmin/internal/mailer"
	"campadmin/internal/middleware"
	"campadmin/internal/model"
	"campadmin/internal/permission"
	"campadmin/pkg/config"
	"campadmin/pkg/database"
	"campadmin/pkg/jwtutil"
	"campadmin/pkg/logger"
	"campadmin/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting camp administration service...", cfg.LogFields()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Profile{},
		&model.UserRole{},
		&model.SuperAdminGrant{},
		&model.Company{},
		&model.Division{},
		&model.DivisionPermission{},
		&model.RolePermission{},
		&model.UserTag{},
		&model.EmailLog{},
		&model.Child{},
		&model.StaffMember{},
		&model.Award{},
		&model.Trip{},
		&model.TripAttendance{},
		&model.IncidentReport{},
		&model.DailyNote{},
		&model.MedicationLog{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations complete")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)

	// Session store for super-admin company overrides
	sessions, err := company.NewRedisSessionStore(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to session store", zap.Error(err))
	}
	defer sessions.Close()
	log.Info("Session store connected")

	// Policy engines
	permResolver := permission.NewResolver(permission.NewGormStore(db), log)
	companyResolver := company.NewResolver(company.NewGormStore(db), sessions, log)

	// Outbound mail
	mail := mailer.New(&cfg.SMTP, &cfg.App)
	if !mail.Configured() {
		log.Warn("SMTP not configured; outbound mail will be logged only")
	}

	handler.Initialize(permResolver, companyResolver, mail, cfg)

	// Initialize Prometheus metrics
	prometheus.InitMetrics()

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/me", handler.Me)
	api.POST("/logout", handler.Logout)

	// Company context and super-admin switching
	api.GET("/company", handler.GetActiveCompany)
	api.GET("/companies", handler.ListCompanies)
	api.POST("/company/switch", handler.SwitchCompany)

	// Administration screens, each gated on its page permission
	users := api.Group("/users", middleware.PageGate(permResolver, "users"))
	users.GET("", handler.ListUsers)
	users.POST("/:id/approve", handler.ApproveUser)
	users.DELETE("/:id/reject", handler.RejectUser)

	perms := api.Group("/permissions", middleware.PageGate(permResolver, "permissions"))
	perms.POST("/roles", handler.AssignRole)
	perms.DELETE("/roles/:user_id", handler.RemoveRole)
	perms.GET("/divisions/:user_id", handler.ListDivisionPermissions)
	perms.POST("/divisions", handler.UpsertDivisionPermission)
	perms.DELETE("/divisions/:user_id/:division_id", handler.RevokeDivisionPermission)
	perms.GET("/pages", handler.ListRolePermissions)
	perms.POST("/pages", handler.UpsertRolePermission)
	perms.POST("/tags", handler.SetUserTags)

	divisions := api.Group("/divisions", middleware.PageGate(permResolver, "divisions"))
	divisions.GET("", handler.ListDivisions)
	divisions.POST("", handler.CreateDivision)
	divisions.PATCH("/:id", handler.UpdateDivision)
	divisions.DELETE("/:id", handler.DeleteDivision)

	// Domain screens
	children := api.Group("/children", middleware.PageGate(permResolver, "children"))
	children.GET("", handler.ListChildren)
	children.GET("/:id", handler.GetChild)
	children.POST("", handler.CreateChild)
	children.PATCH("/:id", handler.UpdateChild)
	children.DELETE("/:id", handler.DeleteChild)

	staff := api.Group("/staff", middleware.PageGate(permResolver, "staff"))
	staff.GET("", handler.ListStaff)
	staff.POST("", handler.CreateStaff)
	staff.PATCH("/:id", handler.UpdateStaff)
	staff.DELETE("/:id", handler.DeleteStaff)

	awards := api.Group("/awards", middleware.PageGate(permResolver, "awards"))
	awards.GET("", handler.ListAwards)
	awards.POST("", handler.CreateAward)
	awards.DELETE("/:id", handler.DeleteAward)

	trips := api.Group("/trips", middleware.PageGate(permResolver, "trips"))
	trips.GET("", handler.ListTrips)
	trips.GET("/:id", handler.GetTrip)
	trips.POST("", handler.CreateTrip)
	trips.DELETE("/:id", handler.DeleteTrip)
	trips.PUT("/:id/attendance", handler.SetTripAttendance)

	incidents := api.Group("/incidents", middleware.PageGate(permResolver, "incidents"))
	incidents.GET("", handler.ListIncidentReports)
	incidents.POST("", handler.CreateIncidentReport)
	incidents.PATCH("/:id", handler.UpdateIncidentReport)

	notes := api.Group("/daily-notes", middleware.PageGate(permResolver, "daily_notes"))
	notes.GET("", handler.ListDailyNotes)
	notes.POST("", handler.CreateDailyNote)
	notes.DELETE("/:id", handler.DeleteDailyNote)

	medications := api.Group("/medications", middleware.PageGate(permResolver, "medications"))
	medications.GET("", handler.ListMedicationLogs)
	medications.POST("", handler.CreateMedicationLog)

	// Notification functions: the serverless boundary from the hosted
	// deployment, kept as dedicated endpoints with their own role
	// re-validation.
	functions := e.Group("/functions")
	functions.Use(middleware.AuthMiddleware)
	functions.POST("/create-user", handler.CreateUser)
	functions.POST("/send-bulk-email", handler.SendBulkEmail)
	functions.POST("/send-user-invitation", handler.SendUserInvitation)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
