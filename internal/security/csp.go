package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const nonceKey = "csp-nonce"

// GenerateNonce generates a cryptographically secure random nonce. The
// URL-safe alphabet survives html/template attribute escaping unchanged.
func GenerateNonce() (string, error) {
	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.URLEncoding.EncodeToString(nonceBytes), nil
}

// PolicyFunc builds a Content-Security-Policy for one response
type PolicyFunc func(nonce string) string

// CSPMiddleware generates a nonce per request, stores it for templates and
// sets the policy built from it
func CSPMiddleware(policy PolicyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce, err := GenerateNonce()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(nonceKey, nonce)
		c.Header("Content-Security-Policy", policy(nonce))

		c.Next()
	}
}

// GetNonce retrieves the nonce from the Gin context
func GetNonce(c *gin.Context) string {
	if nonce, exists := c.Get(nonceKey); exists {
		if nonceStr, ok := nonce.(string); ok {
			return nonceStr
		}
	}
	return ""
}

// PagePolicy returns the policy for the simulator page. Scripts and styles
// need the nonce; echarts may also load from assetsHost.
func PagePolicy(assetsHost string) PolicyFunc {
	origin := assetOrigin(assetsHost)
	return func(nonce string) string {
		scriptSrc := "'self' 'nonce-" + nonce + "'"
		if origin != "'self'" {
			scriptSrc += " " + origin
		}
		return "default-src 'self'; " +
			"script-src " + scriptSrc + "; " +
			"style-src 'self' 'nonce-" + nonce + "'; " +
			"img-src 'self' data:; " +
			"connect-src 'self'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}
}

// assetOrigin reduces an asset URL to scheme://host for use as a source
func assetOrigin(assetsHost string) string {
	if assetsHost == "" || strings.HasPrefix(assetsHost, "/") {
		return "'self'"
	}
	s := assetsHost
	if i := strings.Index(s, "://"); i >= 0 {
		if j := strings.Index(s[i+3:], "/"); j >= 0 {
			s = s[:i+3+j]
		}
	}
	return s
}
