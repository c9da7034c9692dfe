package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RayaSatriatama/dicoding-genai-backend/controlers"
	"github.com/RayaSatriatama/dicoding-genai-backend/libs"
)

func InitRoutes(
	router *gin.Engine,
	auth *libs.Auth,
	users *controlers.UserController,
	chats *controlers.ChatController,
	documents *controlers.DocumentController,
	uploadDir string,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth/register", users.Register)
	router.POST("/auth/login", users.Login)

	// Stored uploads are served back directly.
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")
	api.Use(auth.Middleware())
	{
		api.GET("/me", users.Me)

		api.POST("/chats", chats.CreateChat)
		api.GET("/userchats", chats.GetUserChats)
		api.GET("/chats/:id", chats.GetChat)
		api.PUT("/chats/:id", chats.AppendChat)
		api.POST("/chats/:id/ask", chats.AskChat)
		api.DELETE("/chats/:id", chats.DeleteChat)

		api.POST("/upload", documents.Upload)
		api.GET("/documents", documents.List)
		api.DELETE("/documents/:path", documents.Delete)
	}
}
