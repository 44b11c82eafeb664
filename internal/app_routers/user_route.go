package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/Dhrutik-Patel/CodeChat/internal/auth"
	"github.com/Dhrutik-Patel/CodeChat/internal/configuration"
)

func UserRouters(router *gin.Engine, container *configuration.Container) {
	userRoute := router.Group("/api/users")
	{
		userRoute.POST("/register", container.UserHandler.Register)
		userRoute.POST("/login", container.UserHandler.Login)
		userRoute.GET("", auth.Middleware(container.Tokens), container.UserHandler.SearchUsers)
	}
}
