package router

import (
	"github.com/gin-gonic/gin"

	"agriverify/internal/domain"
	"agriverify/internal/handler"
	"agriverify/internal/middleware"
	"agriverify/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	verifyH *handler.VerifyHandler,
	farmerH *handler.FarmerHandler,
	docH *handler.DocumentHandler,
	registryH *handler.RegistryHandler,
	userH *handler.UserHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Verification pipeline
	verify := protected.Group("/verify")
	verify.POST("", verifyH.Verify)
	verify.POST("/quality", verifyH.Quality)
	verify.POST("/ocr", verifyH.OCR)
	verify.POST("/fields", verifyH.ValidateFields)

	// Farmer registry
	farmers := protected.Group("/farmers")
	farmers.POST("", middleware.RequireRole(domain.RoleAdmin), farmerH.Create)
	farmers.GET("", farmerH.List)
	farmers.GET("/similar", farmerH.Similar)
	farmers.GET("/:id", farmerH.Get)
	farmers.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), farmerH.Update)
	farmers.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), farmerH.Delete)

	// Verification documents
	docs := protected.Group("/documents")
	docs.GET("", docH.List)
	docs.GET("/export", docH.Export)
	docs.GET("/:id", docH.Get)
	docs.GET("/:id/image", docH.ImageURL)
	docs.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), docH.Delete)

	// Registry snapshot control
	registry := protected.Group("/registry")
	registry.GET("/status", registryH.Status)
	registry.POST("/refresh", middleware.RequireRole(domain.RoleAdmin), registryH.Refresh)

	// User management
	users := protected.Group("/users")
	users.GET("/me", userH.Me)
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), userH.List)
	users.GET("/:id", userH.Get)

	return r
}
