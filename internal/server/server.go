package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/handler"
	"github.com/rim-zghida/plagiasm-detector/internal/middleware"
)

type Server struct {
	router *gin.Engine
	log    *logrus.Logger
}

// NewServer wires the HTTP surface. Handlers and the JWT secret are
// injected; the server owns only routing.
func NewServer(
	authHandler handler.AuthHandler,
	adminHandler handler.AdminHandler,
	analysisHandler handler.AnalysisHandler,
	jwtSecret []byte,
	zlog *zap.Logger,
	log *logrus.Logger,
) *Server {
	router := gin.Default()

	s := &Server{router: router, log: log}

	// Ping route for health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Authentication routes
	authGroup := router.Group("/api/v1/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := router.Group("/api/v1")
	authRequired.Use(middleware.AuthMiddleware(jwtSecret, zlog))
	{
		authRequired.POST("/analyze", analysisHandler.Analyze)
		authRequired.GET("/batches", analysisHandler.ListBatches)
		authRequired.GET("/batches/:id/results", analysisHandler.BatchResults)
		authRequired.POST("/ai-detection", analysisHandler.DetectOnly)
		authRequired.GET("/ai-detection/health", analysisHandler.DetectionHealth)
	}

	// Admin routes
	adminGroup := router.Group("/api/v1/admin")
	adminGroup.Use(middleware.AuthMiddleware(jwtSecret, zlog), middleware.AdminOnly())
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.POST("/users", adminHandler.CreateUser)
		adminGroup.PUT("/users/:id", adminHandler.UpdateUserRole)
		adminGroup.DELETE("/users/:id", adminHandler.DeactivateUser)
		adminGroup.GET("/stats", adminHandler.Stats)
	}

	return s
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
