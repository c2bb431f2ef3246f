package server

import (
	"net/http"

	"social-service/internal/auth"
	"social-service/internal/chat"
	"social-service/internal/session"
	"social-service/internal/social"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(router *gin.Engine, authHandler *auth.Handler, socialHandler *social.Handler,
	resolver session.Resolver, gateway *chat.Gateway) {

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check route
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"connections": gateway.Registry().CountConnections(),
		})
	})

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authGroup := public.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
		}
	}

	// Protected routes (require an authenticated session)
	protected := router.Group("/api/v1")
	protected.Use(auth.SessionAuth(resolver))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", authHandler.Me)
			users.POST("/me/avatar", authHandler.UploadAvatar)
		}

		posts := protected.Group("/posts")
		{
			posts.POST("", socialHandler.CreatePost)
			posts.GET("", socialHandler.Feed)
			posts.DELETE("/:id", socialHandler.DeletePost)
		}

		comments := protected.Group("/comments")
		{
			comments.POST("", socialHandler.CreateComment)
			comments.DELETE("/:id", socialHandler.DeleteComment)
		}

		protected.POST("/likes/toggle", socialHandler.ToggleLike)

		friends := protected.Group("/friends")
		{
			friends.GET("", socialHandler.ListFriends)
			friends.POST("/:id", socialHandler.AddFriend)
			friends.DELETE("/:id", socialHandler.RemoveFriend)
		}
	}

	// The websocket handshake authenticates itself against the session
	// store, so it sits outside the middleware chain.
	router.GET("/ws", chat.ServeWS(gateway))
}
