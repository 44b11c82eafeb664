package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/Dhrutik-Patel/CodeChat/internal/auth"
	"github.com/Dhrutik-Patel/CodeChat/internal/configuration"
)

func ChatRouters(router *gin.Engine, container *configuration.Container) {
	chatRoute := router.Group("/api/chats", auth.Middleware(container.Tokens))
	{
		chatRoute.GET("", container.ChatHandler.ListChats)
		chatRoute.POST("", container.ChatHandler.AccessDirectChat)
		chatRoute.POST("/group", container.ChatHandler.CreateGroupChat)
		chatRoute.PUT("/rename-group", container.ChatHandler.RenameGroupChat)
		chatRoute.PUT("/add-members", container.ChatHandler.AddMembers)
		chatRoute.PUT("/remove-members", container.ChatHandler.RemoveMembers)
	}
}
