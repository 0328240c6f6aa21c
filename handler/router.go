package handler

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"libms/auth"
	"libms/config"
	"libms/log"
	"libms/service"
)

// requestLogger attaches a request-scoped logger to the request context.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := log.WithFields(logrus.Fields{
			"request_id": uuid.New().String(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(log.NewContext(c.Request.Context(), entry))
		c.Next()
	}
}

// NewRouter wires handlers onto a gin engine.
func NewRouter(
	cfg *config.Config,
	registerSvc service.RegisterService,
	authSvc service.AuthService,
	bookSvc service.BookService,
) *gin.Engine {
	RegisterValidations()

	router := gin.Default()
	router.Use(requestLogger())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	router.Static("/"+filepath.Base(cfg.Upload.Dir), cfg.Upload.Dir)

	authHandler := NewAuthHandler(registerSvc, authSvc)
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	bookHandler := NewBookHandler(bookSvc)
	uploadHandler := NewUploadHandler(cfg.Upload)
	secret := []byte(cfg.Auth.JWTSecret)

	book := router.Group("/book", auth.RequireAuth(secret))
	book.POST("", bookHandler.Create)
	book.GET("", bookHandler.FindAll)
	book.POST("/upload", uploadHandler.Upload)
	book.POST("/borrow", bookHandler.Borrow)
	book.GET("/:id", bookHandler.FindOne)
	book.PATCH("/:id", bookHandler.Update)
	book.POST("/:id/return", bookHandler.Return)

	return router
}
