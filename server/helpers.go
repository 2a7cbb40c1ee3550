package server

import (
	"log"

	"github.com/gin-gonic/gin"
)

// sendJSONError отправляет JSON ошибку и логирует ее
func sendJSONError(c *gin.Context, statusCode int, message string) {
	log.Printf("Ошибка HTTP %d %s %s: %s [RequestID: %s]",
		statusCode, c.Request.Method, c.Request.URL.Path, message, RequestIDFromContext(c))
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}
