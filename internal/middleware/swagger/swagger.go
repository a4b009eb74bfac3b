package swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/iwtcode/rlinkBridge/docs"
)

// Config содержит настройки для Swagger
type Config struct {
	Enabled bool
	Path    string
	Host    string // адрес HTTP-сервера моста для "Try it out", пусто - из аннотаций
}

// Setup публикует UI и doc.json по Path. Host подменяет адрес из аннотаций,
// так как порт моста задается через APP_PORT.
func Setup(r *gin.Engine, cfg *Config) {
	if cfg == nil || !cfg.Enabled {
		return
	}
	if cfg.Host != "" {
		docs.SwaggerInfo.Host = cfg.Host
	}
	r.GET(cfg.Path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.DocExpansion("list"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
