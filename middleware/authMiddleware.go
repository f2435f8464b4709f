package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/balcao/backend/utils"
)

// Keys under which AuthMiddleware stores the caller on the gin context.
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	RoleKey     = "role"
)

// bearerToken prefers the "token" cookie set at login and falls back to an
// "Authorization: Bearer" header. problem is non-empty when neither is usable.
func bearerToken(c *gin.Context) (token, problem string) {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie, ""
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", "Authorization token not provided"
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.ContainsRune(token, ' ') {
		return "", "Invalid Authorization header format"
	}
	return token, ""
}

// AuthMiddleware lets the request through when its token is valid and its
// role is one of roles.
func AuthMiddleware(issuer *utils.TokenIssuer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		claims, err := issuer.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}
		if !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not allowed"})
			return
		}

		c.Set(UserIDKey, claims.ID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}
