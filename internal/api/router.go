package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/geofeed/config"
	_ "github.com/d60-Lab/geofeed/docs"
	"github.com/d60-Lab/geofeed/internal/api/handler"
	"github.com/d60-Lab/geofeed/internal/api/middleware"
)

// NewRouter wires the HTTP surface. The core services stay HTTP-agnostic;
// everything request-shaped lives here and in the handlers.
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(otelgin.Middleware("geofeed"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/media/:key", h.GetMedia)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/feed", h.GetFeed)

		// Writes are throttled per IP; anonymous posting invites abuse.
		writes := v1.Group("", middleware.RateLimit(rate.Every(2*time.Second), 5))
		{
			writes.POST("/posts", h.CreatePost)
			writes.DELETE("/posts/:id", h.DeletePost)
		}

		admin := v1.Group("/admin", middleware.AdminAuth(cfg.Admin.JWTSecret))
		{
			admin.DELETE("/posts/:id", h.AdminDeletePost)
			admin.POST("/reap", h.AdminReap)
		}
	}
	return r
}

// registerValidators adds custom rules to gin's binding engine.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// Comments render as a single marker line on the map.
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
}
