package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/VSO-Labs/Daddy-John-Backend/config"
)

const usernameKey = "username"

// Auth verifies the bearer token and stores the authenticated username
// in the gin context for the controllers.
func Auth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.GlobalConfig.Auth.Secret), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
		return
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "username not found in token"})
		return
	}

	c.Set(usernameKey, username)
	c.Next()
}

// Username extracts the authenticated username set by Auth.
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}
