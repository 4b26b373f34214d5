package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/melodix/vipgate/internal/server/http/handlers"
	"github.com/melodix/vipgate/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.VIPFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)

	api := engine.Group("/api")
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	payment := api.Group("/payment")
	payment.POST("/webhook", webhookHandler.Notify)

	vip := api.Group("/vip")
	vip.Use(middleware.AuthRequired(facade))
	vip.POST("/orders", orderHandler.Create)
	vip.GET("/orders", orderHandler.List)
	vip.POST("/orders/:code/cancel", orderHandler.Cancel)
	vip.GET("/status", orderHandler.Status)

	return engine
}
