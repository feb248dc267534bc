package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"seat-queue/internal/handler/api"
	"seat-queue/internal/handler/middleware"
	"seat-queue/internal/infra/metrics"
	"seat-queue/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// NewRouter wires middleware and routes. m may be nil, which disables the request
// histogram and the exposition endpoint.
func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, queueHandler *api.QueueHandler, m *metrics.Metrics) {
	setupMiddleware(engine, cfg, logger, m)
	setupRoutes(engine, cfg, queueHandler, m)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	if m != nil {
		engine.Use(middleware.RequestMetrics(m))
	}
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, queueHandler *api.QueueHandler, m *metrics.Metrics) {
	engine.GET("/health", healthCheck)

	if m != nil && cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	engine.GET("/stats", queueHandler.Stats)

	reservations := engine.Group("/reservations")
	{
		addRoutes(reservations, []route{
			{Method: http.MethodPost, Path: "", Handler: queueHandler.Create},
			{Method: http.MethodGet, Path: "", Handler: queueHandler.List},
			{Method: http.MethodGet, Path: "/waiting/list", Handler: queueHandler.WaitingList},
			{Method: http.MethodGet, Path: "/waiting/estimates", Handler: queueHandler.WaitingEstimates},
			{Method: http.MethodGet, Path: "/next", Handler: queueHandler.NextEligible},
			{Method: http.MethodPost, Path: "/next", Handler: queueHandler.AdmitNext},
			{Method: http.MethodGet, Path: "/:queue_number", Handler: queueHandler.Get},
			{Method: http.MethodPatch, Path: "/:queue_number", Handler: queueHandler.UpdateStatus},
			{Method: http.MethodGet, Path: "/:queue_number/wait-info", Handler: queueHandler.WaitInfo},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		g.Handle(r.Method, r.Path, r.Handler)
	}
}
