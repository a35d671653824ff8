package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/folioworks/portfolio-api/docs"
	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/middleware"
	"github.com/folioworks/portfolio-api/internal/modules/handler"
	"github.com/folioworks/portfolio-api/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config         *config.Config
	Redis          *redis.Client
	Log            *zap.Logger
	AuthHandler    *handler.AuthHandler
	ProjectHandler *handler.ProjectHandler
	ContactHandler *handler.ContactHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 32 << 20

	// Add OpenTelemetry middleware if enabled (using configuration system)
	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		// Add trace ID to response header
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	if len(d.Config.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: d.Config.CORS.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}))
	}

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Message: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.AuthHandler.Register)
			auth.POST("/login", d.AuthHandler.Login)
		}

		contact := v1.Group("/contact")
		{
			window := time.Duration(d.Config.Contact.RateWindowSec) * time.Second
			contact.POST("", middleware.RateLimit(d.Redis, d.Config.Contact.RateLimit, window), d.ContactHandler.SendContact)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("/public", d.ProjectHandler.GetPublicProjects)

			authed := projects.Group("")
			authed.Use(middleware.Auth(d.Config))
			{
				authed.GET("/technologies", d.ProjectHandler.GetTechnologies)

				authed.POST("", d.ProjectHandler.CreateProject)
				authed.GET("", d.ProjectHandler.GetProjects)
				authed.GET("/:id", d.ProjectHandler.GetProject)
				authed.PUT("/:id", d.ProjectHandler.UpdateProject)
				authed.DELETE("/:id", d.ProjectHandler.DeleteProject)

				authed.DELETE("/image/:imageId", d.ProjectHandler.DeleteImage)
			}
		}
	}

	return r
}
