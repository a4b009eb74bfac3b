package handlers

import (
	"net/http"

	"github.com/iwtcode/rlinkBridge/internal/config"
	"github.com/iwtcode/rlinkBridge/internal/interfaces"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	"github.com/iwtcode/rlinkBridge/internal/middleware/swagger"
	"github.com/iwtcode/rlinkBridge/internal/services/metrics"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase interfaces.Usecases
	logger  *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig, swagCfg *swagger.Config, m *metrics.Metrics) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.Default()

	// Swagger
	swagger.Setup(router, swagCfg)

	// Панель управления открывается с другого origin
	router.Use(CORSMiddleware())

	// Logger Middleware
	router.Use(LoggingMiddleware(h.logger))

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/telemetry", h.GetTelemetry)
	router.POST("/send", h.SendChannels)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", h.GetStatus)
		v1.GET("/telemetry/history", h.GetTelemetryHistory)
	}

	return router
}
