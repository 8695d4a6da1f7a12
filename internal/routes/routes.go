// Package routes defines the HTTP route table.
package routes

import (
	"slices"
	"time"

	"github.com/franciscosanchezn/docky-api/docs"
	"github.com/franciscosanchezn/docky-api/internal/controllers"
	"github.com/franciscosanchezn/docky-api/internal/metrics"
	"github.com/franciscosanchezn/docky-api/internal/middleware"
	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth      *controllers.AuthController
	Documents *controllers.DocumentController
	Admin     *controllers.AdminController
	Settings  *controllers.SettingsController
	Health    *controllers.HealthController
}

type Options struct {
	CORSOrigins []string
	Swagger     bool
	SwaggerHost string
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, ctl Controllers, verifier middleware.Verifier, m *metrics.Metrics, log logrus.FieldLogger, opts Options) {
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Metrics(m),
		cors.New(corsConfig(opts.CORSOrigins)),
	)

	router.GET("/health", ctl.Health.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		authApi := api.Group("/auth")
		{
			authApi.POST("/signup", ctl.Auth.Signup)
			authApi.POST("/login", ctl.Auth.Login)
		}

		// Everything below requires a valid identity token
		protected := api.Group("")
		protected.Use(middleware.Authenticate(verifier, log))
		{
			documentsApi := protected.Group("/documents")
			{
				documentsApi.POST("/upload", ctl.Documents.Upload)
				documentsApi.GET("/my", ctl.Documents.ListMine)
				documentsApi.GET("/download/:id", ctl.Documents.Download)
				documentsApi.GET("/view/:id", ctl.Documents.View)
			}

			adminApi := protected.Group("/admin")
			adminApi.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminApi.GET("/documents", ctl.Admin.ListDocuments)
				adminApi.PUT("/documents/:id", ctl.Admin.UpdateDocument)
			}

			settingsApi := protected.Group("/settings")
			{
				settingsApi.GET("/deadline", ctl.Settings.GetDeadline)
				settingsApi.POST("/deadline", middleware.RequireRole(models.RoleAdmin), ctl.Settings.SetDeadline)
			}
		}
	}

	if opts.Swagger {
		if opts.SwaggerHost != "" {
			docs.SwaggerInfo.Host = opts.SwaggerHost
		}
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
