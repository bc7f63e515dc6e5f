package api

import (
	"channel-gate/api/handlers"
	"channel-gate/api/middleware"
	"channel-gate/contract"
	"channel-gate/services"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	// AllowedOrigins is nil when every origin is accepted.
	AllowedOrigins  []string
	EventSigningKey []byte
	StaticDir       string
	Debug           bool
}

type Dependencies struct {
	Auth       services.IAuthService
	Webhooks   services.IWebhookService
	Broker     contract.IBroker
	Scheduler  contract.IScheduler
	Identities handlers.IdentityScanner
}

func NewRouter(log *slog.Logger, config RouterConfig, deps Dependencies) *gin.Engine {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", handlers.PusherKeyHeader, handlers.PusherSignatureHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
	}
	if len(config.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.LoggingMiddleware(log))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})

	authHandler := handlers.NewAuthHandler(log, deps.Auth)
	webhookHandler := handlers.NewWebhookHandler(log, deps.Webhooks)
	eventHandler := handlers.NewEventHandler(log, deps.Broker)

	router.POST("/event", middleware.PublisherAuthMiddleware(config.EventSigningKey), eventHandler.Publish)
	router.POST("/webhook", webhookHandler.Receive)
	router.POST("/user-auth", authHandler.AuthenticateUser)
	router.POST("/auth", authHandler.AuthorizeChannel)

	if config.Debug {
		debugHandler := handlers.NewDebugHandler(deps.Identities, deps.Scheduler)
		debug := router.Group("/debug")
		debug.GET("/identities", debugHandler.Identities)
		debug.GET("/channels", debugHandler.Channels)
	}

	if config.StaticDir != "" {
		router.NoRoute(staticFiles(config.StaticDir))
	}

	return router
}

// staticFiles serves the client bundle. Paths under /pusher/ are reserved for the broker.
func staticFiles(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(gin.Dir(dir, false))
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		if path == "/pusher" || strings.HasPrefix(path, "/pusher/") {
			c.Status(http.StatusNotFound)
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
