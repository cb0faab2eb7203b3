package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/nexboard/nexboard/docs"
	"github.com/nexboard/nexboard/internal/handler"
	"github.com/nexboard/nexboard/internal/util"
	"github.com/nexboard/nexboard/pkg/monitor"
)

type Backend struct {
	R *gin.Engine
}

// Register assembles the engine: middleware, health and metrics endpoints,
// swagger, and every manager's routes under /api/<name>.
func Register(conf *handler.RegisterConfig) *Backend {
	s := new(Backend)
	s.R = gin.New()
	s.R.Use(gin.Logger(), gin.Recovery(), util.RequestID(), monitor.Middleware())

	// Enable CORS for http://localhost:XXXX in debug mode
	if gin.Mode() == gin.DebugMode {
		fe := os.Getenv("NEXBOARD_FE_PORT")
		if fe != "" {
			corsConf := cors.DefaultConfig()
			corsConf.AllowOrigins = []string{"http://localhost:" + fe}
			s.R.Use(cors.New(corsConf))
		}
	}

	s.R.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	s.R.GET("/metrics", monitor.Handler())

	// Swagger
	docs.SwaggerInfo.BasePath = "/"
	s.R.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.R.Group("/api")
	for _, mgr := range registerManagers(conf) {
		mgr.RegisterRoutes(api.Group("/" + mgr.GetName()))
	}

	return s
}
