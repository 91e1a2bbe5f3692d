package backendtest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerAuth exige un token firmado por este backend. El servidor real no lo
// pide; se activa con Options.RequireBearer.
func (b *Backend) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if _, err := b.ParseToken(strings.TrimSpace(header[len("Bearer "):])); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}
