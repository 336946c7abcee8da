package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Tasks    *services.TaskService
	Comments *services.CommentService
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	taskHandler := NewTaskHandler(svc.Tasks)
	commentHandler := NewCommentHandler(svc.Comments)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/federated", authHandler.LoginFederated)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/stream", taskHandler.StreamTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)

			task := tasks.Group("/:id")
			task.Use(middleware.RequireTask(svc.Tasks))
			{
				task.GET("", taskHandler.GetTask)
				task.PATCH("", taskHandler.UpdateTask)
				task.POST("/assign", taskHandler.AssignTask)
				task.POST("/unassign", taskHandler.UnassignTask)
				task.POST("/done", taskHandler.MarkDone)

				task.GET("/comments", commentHandler.ListComments)
				task.GET("/comments/stream", commentHandler.StreamComments)
				task.POST("/comments", commentHandler.AddComment)
				task.PATCH("/comments/:comment_id", commentHandler.EditComment)
				task.DELETE("/comments/:comment_id", commentHandler.DeleteComment)
				task.PUT("/comments/:comment_id/reaction", commentHandler.SetReaction)
				task.DELETE("/comments/:comment_id/reaction", commentHandler.RemoveReaction)
			}
		}
	}
}
