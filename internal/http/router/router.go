package router

import (
	"github.com/gin-gonic/gin"

	"purefunding.app/responder/internal/http/handler"
	"purefunding.app/responder/internal/queue"
	"purefunding.app/responder/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services, producer queue.Producer) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	webhookHandler := handler.NewWebhookHandler(
		services.Directory,
		services.Generator,
		services.Delay,
		services.Persister,
		services.Context,
		producer,
	)

	// Some Kixie configurations append extra path segments to the webhook
	// URL, so the catch-all route accepts those too.
	router.POST("/webhook", webhookHandler.Handle)
	router.POST("/webhook/*path", webhookHandler.Handle)
}
