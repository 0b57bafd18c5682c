package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/date-decision-simulator/docs"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/analysis"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/config"
	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/frontend"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/monitoring"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/ratelimit"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/resources"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/security"
)

// app holds everything the routes need. When loadErr is set the server is
// halted: resources and pages are nil and only diagnostics are served.
type app struct {
	cfg       *config.Config
	logger    *monitoring.Logger
	metrics   *monitoring.Metrics
	limiter   *ratelimit.RateLimiter
	resources *resources.Resources
	pages     *frontend.Handler
	loadErr   error
	location  string
}

func newApp(cfg *config.Config, logger *monitoring.Logger, metrics *monitoring.Metrics, limiter *ratelimit.RateLimiter,
	res *resources.Resources, loadErr error, location string) *app {
	a := &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		limiter:   limiter,
		resources: res,
		loadErr:   loadErr,
		location:  location,
	}
	if loadErr == nil {
		analyzer := analysis.NewAnalyzer(res.Classifier, res.Baseline)
		a.pages = frontend.NewHandler(analyzer, metrics, logger, cfg.Chart.AssetsHost)
	}
	return a
}

func (a *app) halted() bool {
	return a.loadErr != nil
}

func (a *app) router() *gin.Engine {
	r := gin.New()

	r.Use(apperrors.RecoveryHandler())
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(a.logger, security.DefaultMaxBodyBytes))
	r.Use(apperrors.ErrorHandler())
	r.Use(security.SecurityHeadersMiddleware(gin.Mode() == gin.ReleaseMode))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", monitoring.RequestIDHeader},
		ExposeHeaders:    []string{monitoring.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", a.health)
	r.GET("/metrics", a.metricsHandler)

	page := security.CSPMiddleware(security.PagePolicy(a.cfg.Chart.AssetsHost))

	if a.halted() {
		r.GET("/", page, frontend.Halted(a.loadErr, a.location, a.cfg.Artifacts.Model, a.cfg.Artifacts.Baseline))
		r.NoRoute(a.unavailable)
		return r
	}

	r.GET("/", page, a.pages.Page)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/schema", a.schema)
		api.POST("/predict",
			a.limiter.IPRateLimitMiddleware(),
			security.ValidateContentType(),
			security.LimitBody(security.DefaultMaxBodyBytes),
			a.predict,
		)
	}

	return r
}

// unavailable answers every route but the diagnostics while halted
func (a *app) unavailable(c *gin.Context) {
	appErr := apperrors.ToAppError(a.loadErr)
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		body := appErr.Response()
		body["request_id"] = c.GetString(monitoring.RequestIDKey)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, body)
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
}
