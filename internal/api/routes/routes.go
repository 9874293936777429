package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/refertrack/backend/internal/api/handlers"
	"github.com/refertrack/backend/internal/api/middleware"
)

type Deps struct {
	JWTSecret string

	Auth   *handlers.AuthHandler
	Job    *handlers.JobHandler
	Person *handlers.PersonHandler
	Chat   *handlers.ChatHandler
	Resume *handlers.ResumeHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/auth/token", d.Auth.Token)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWTSecret))

	auth.POST("/jobs", d.Job.Create)
	auth.GET("/jobs", d.Job.List)
	auth.GET("/jobs/:job_id", d.Job.Get)
	auth.PUT("/jobs/:job_id/status", d.Job.UpdateStatus)
	auth.DELETE("/jobs/:job_id", d.Job.Delete)

	auth.POST("/jobs/:job_id/people", d.Person.Create)
	auth.GET("/jobs/:job_id/people", d.Person.ListByJob)
	auth.GET("/jobs/:job_id/connections", d.Person.ListConnections)
	auth.GET("/people/:person_id", d.Person.Get)
	auth.PUT("/people/:person_id/status", d.Person.UpdateStatus)
	auth.PUT("/people/:person_id/connect", d.Person.Connect)
	auth.DELETE("/people/:person_id", d.Person.Delete)

	auth.GET("/people/:person_id/cold-message", d.Chat.ColdMessage)
	auth.GET("/chat/:kind/:id", d.Chat.History)
	auth.POST("/chat/:kind/:id/messages", d.Chat.SendFollowUp)
	auth.DELETE("/chat/:kind/:id", d.Chat.Clear)

	auth.POST("/jobs/:job_id/resume/improve", d.Resume.Improve)
}
