package api

import (
	"clubhouse-backend/internal/api/handlers"
	"clubhouse-backend/internal/api/middleware"
	"clubhouse-backend/internal/auth"
	"clubhouse-backend/internal/config"
	"clubhouse-backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// NewRouter mounts every route on a fresh engine. Login, register and logout
// are only served when h runs with session auth.
func NewRouter(cfg *config.Config, logger *zap.Logger, h *handlers.Handler, provider auth.Provider) *gin.Engine {
	binding.Validator = new(middleware.DefaultValidator)

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery())
	r.Use(middleware.GinLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins))

	// Public Routes
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/uploads/:filename", h.ServeUpload)

	requireIdentity := middleware.RequireIdentity(provider, logger)

	api := r.Group("/api")
	if h.SessionAuth() {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)
		authRoutes := api.Group("/auth")
		authRoutes.POST("/login", limiter.Middleware(), h.Login)
		authRoutes.POST("/register", limiter.Middleware(), h.Register)
		authRoutes.POST("/logout", h.Logout)
	}

	// Protected Routes
	authorized := api.Group("")
	authorized.Use(requireIdentity)
	{
		authorized.GET("/auth/user", h.CurrentUser)

		// EVENTS
		authorized.GET("/events", h.ListEvents)
		authorized.GET("/events/mine", h.MyEvents)
		authorized.GET("/events/:id", h.GetEvent)
		authorized.POST("/events", h.CreateEvent)
		authorized.PUT("/events/:id", h.UpdateEvent)
		authorized.DELETE("/events/:id", h.DeleteEvent)

		// ATTENDANCE
		authorized.GET("/events/:id/attendees", h.ListAttendees)
		authorized.POST("/events/:id/attend", h.Attend)
		authorized.DELETE("/events/:id/attend", h.Unattend)
		authorized.GET("/events/:id/attending", h.Attending)

		// PHOTOS
		authorized.GET("/photos", h.ListPhotos)
		authorized.GET("/photos/mine", h.MyPhotos)
		authorized.POST("/photos", h.UploadPhoto)
		authorized.PUT("/photos/:id", h.UpdatePhoto)
		authorized.DELETE("/photos/:id", h.DeletePhoto)
	}

	return r
}
