package routes

import (
	"medbooking-server/internal/booking"
	"medbooking-server/internal/config"
	"medbooking-server/internal/handlers"
	"medbooking-server/internal/middleware"
	"medbooking-server/internal/models"
	"medbooking-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) {
	// The booking engine owns slot uniqueness, the status lifecycle and
	// rating aggregation; handlers stay thin around it.
	engine := booking.NewEngine(store.NewAppointmentStore(db), store.NewDoctorStore(db), log)

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	clinicHandler := handlers.NewClinicHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, engine)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// The provider directory is browsable without an account
		public.GET("/doctors", doctorHandler.GetDoctors)
		public.GET("/doctors/:id", doctorHandler.GetDoctorByID)
		public.GET("/clinics", clinicHandler.GetClinics)
		public.GET("/clinics/:id", clinicHandler.GetClinicByID)
		public.GET("/clinics/:id/doctors", clinicHandler.GetClinicDoctors)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		// Doctor management
		private.POST("/doctors", middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.CreateDoctor)
		private.PUT("/doctors/:id", doctorHandler.UpdateDoctor) // admin or the doctor themself, checked in handler
		private.DELETE("/doctors/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.DeleteDoctor)

		// Clinic management
		private.POST("/clinics", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleClinicAdmin), clinicHandler.CreateClinic)
		private.PUT("/clinics/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleClinicAdmin), clinicHandler.UpdateClinic)
		private.DELETE("/clinics/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), clinicHandler.DeleteClinic)

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Lifecycle, payment and rating; actor checks live in the engine
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PATCH("/:id/payment", appointmentHandler.UpdatePayment)
			appointmentRoutes.POST("/:id/rate", appointmentHandler.RateAppointment)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
