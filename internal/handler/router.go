package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-calculator/internal/middleware"
	"github.com/noah-isme/gpa-calculator/internal/service"
	"github.com/noah-isme/gpa-calculator/pkg/config"
	"github.com/noah-isme/gpa-calculator/pkg/logger"
	corsmiddleware "github.com/noah-isme/gpa-calculator/pkg/middleware/cors"
	"github.com/noah-isme/gpa-calculator/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/gpa-calculator/pkg/middleware/requestid"
)

// RouterDeps groups everything the HTTP layer needs.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Sessions *service.SessionService
	Exports  *service.ExportService
	Metrics  *service.MetricsService
}

// NewRouter wires middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	metricsHandler := NewMetricsHandler(deps.Metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// A typed nil must not reach the handler as a non-nil interface.
	var exports exportService
	exportsOn := cfg.Exports.Enabled && deps.Exports != nil
	if exportsOn {
		exports = deps.Exports
	}
	sessions := NewSessionHandler(deps.Sessions, exports)
	createLimit := ratelimit.NewLimiter(cfg.Sessions.CreateRate, cfg.Sessions.CreateBurst)

	api := r.Group(cfg.APIPrefix)
	api.GET("/grade-scale", sessions.GradeScale)
	api.POST("/sessions", createLimit.Middleware(), sessions.Create)
	api.GET("/sessions/:id", sessions.Get)
	api.DELETE("/sessions/:id", sessions.Delete)
	api.POST("/sessions/:id/count", sessions.SubmitCount)
	api.PUT("/sessions/:id/courses", sessions.SaveCourses)
	api.PATCH("/sessions/:id/courses/:index", sessions.UpdateCourse)
	api.POST("/sessions/:id/calculate", sessions.Calculate)
	api.GET("/sessions/:id/result", sessions.Result)
	api.GET("/sessions/:id/export", sessions.Export)
	api.POST("/sessions/:id/reset", sessions.Reset)

	if cfg.Form.Enabled {
		exportPrefix := ""
		if exportsOn {
			exportPrefix = cfg.APIPrefix
		}
		form := NewFormHandler(deps.Sessions, FormConfig{
			CookieName:   cfg.Form.CookieName,
			CookieSecure: cfg.Form.CookieSecure,
			MaxCourses:   cfg.Sessions.MaxCourses,
			ExportPrefix: exportPrefix,
			CreateLimit:  createLimit,
		})
		r.GET("/", form.Show)
		r.POST("/count", form.SubmitCount)
		r.POST("/courses", form.SaveCourses)
		r.POST("/reset", form.Reset)
	}

	return r
}
