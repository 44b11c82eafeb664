package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/Dhrutik-Patel/CodeChat/internal/auth"
	"github.com/Dhrutik-Patel/CodeChat/internal/configuration"
)

func MessageRouters(router *gin.Engine, container *configuration.Container) {
	messageRoute := router.Group("/api/messages", auth.Middleware(container.Tokens))
	{
		messageRoute.POST("", container.MessageHandler.SendMessage)
		messageRoute.GET("/:chatId", container.MessageHandler.GetHistory)
	}
}
