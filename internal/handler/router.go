package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/middleware"
	"github.com/noah-isme/school-data-api/internal/service"
	"github.com/noah-isme/school-data-api/pkg/config"
	"github.com/noah-isme/school-data-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-data-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-data-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-data-api/pkg/response"
)

// NewRouter wires middleware and every API route.
func NewRouter(cfg *config.Config, logr *zap.Logger, svc *service.DataService) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := middleware.NewMetrics(cfg.Store.Backend)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := svc.Ping(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": cfg.Store.Backend})
	})
	r.GET("/metrics", metrics.Handler)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	persons := NewPersonHandler(svc)
	students := NewStudentHandler(svc)
	teachers := NewTeacherHandler(svc)
	classes := NewClassHandler(svc)
	scores := NewScoreHandler(svc)
	bulk := NewBulkHandler(svc)
	analytics := NewAnalyticsHandler(svc)

	api := r.Group("/api/v1")
	{
		api.POST("/persons", persons.Create)
		api.GET("/persons/:id", persons.Get)
		api.PUT("/persons/:id", persons.Update)
		api.DELETE("/persons/:id", persons.Delete)

		api.POST("/students", students.Create)
		api.GET("/students/:id", students.Get)
		api.PUT("/students/:id", students.Update)
		api.DELETE("/students/:id", students.Delete)

		api.POST("/teachers", teachers.Create)
		api.GET("/teachers/:id", teachers.Get)
		api.PUT("/teachers/:id", teachers.Update)
		api.DELETE("/teachers/:id", teachers.Delete)

		api.POST("/classes", classes.Create)
		api.GET("/classes/:id", classes.Get)
		api.PUT("/classes/:id", classes.Update)
		api.DELETE("/classes/:id", classes.Delete)
		api.POST("/classes/:id/students", classes.EnrollStudents)
		api.POST("/classes/:id/teacher", classes.AssignTeacher)

		api.POST("/scores", scores.Add)
		api.POST("/bulk", bulk.Execute)

		api.POST("/aggregates", analytics.Query)
		api.GET("/analytics/:name", analytics.Breakdown)
		api.GET("/analytics/:name/export", analytics.Export)
	}

	return r
}
