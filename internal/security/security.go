package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes bounds a prediction request body
const DefaultMaxBodyBytes = 4 << 10

var allowedContentTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
}

// ValidateContentType rejects bodies that are neither JSON nor form data
func ValidateContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		contentType := strings.ToLower(c.GetHeader("Content-Type"))

		if contentType != "" {
			found := false
			for _, allowed := range allowedContentTypes {
				if strings.Contains(contentType, allowed) {
					found = true
					break
				}
			}
			if !found {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"error":    "unsupported content type",
					"category": "validation",
				})
				return
			}
		}

		c.Next()
	}
}

// LimitBody caps the readable request body at n bytes
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
