package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NoStore marks API responses uncacheable.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		if c.Request.Method == http.MethodGet {
			c.Header("Vary", "Accept")
		}
		c.Next()
	}
}
