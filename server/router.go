package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	allowedOrigins := []string{"http://localhost:3000"}
	if s.Config.AccessControlAllowOrigin != "" {
		allowedOrigins = []string{s.Config.AccessControlAllowOrigin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 30})
	limitConnectionRequests := limitRateForConnectionRequests(store)

	apirouter := router.Group("/api/v1")

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())

	authorized.GET("/profiles", s.handleListProfiles())
	authorized.GET("/profiles/:profileID", s.handleGetProfile())

	authorized.POST("/connections", limitConnectionRequests, s.handleSendConnectionRequest())
	authorized.PATCH("/connections/:connectionID", s.handleUpdateConnectionStatus())
	authorized.GET("/connections", s.handleListConnections())

	authorized.POST("/messages", s.handleSendMessage())
	authorized.GET("/messages/:profileID", s.handleGetThread())
	authorized.POST("/messages/read", s.handleMarkMessagesRead())
	authorized.GET("/conversations", s.handleListConversations())
}
