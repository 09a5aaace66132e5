package middlewares

import (
	"errors"
	"strings"

	"medbrain/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stores the user identifiers
// in the request context. Every verification failure is a uniform 401.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortUnauthorized(c, "authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.AbortUnauthorized(c, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.AbortUnauthorized(c, "invalid or expired token")
			return
		}

		userID, ok := claims["userId"].(float64) // numbers arrive as float64 from JSON
		if !ok || userID <= 0 {
			utils.AbortUnauthorized(c, "invalid or expired token")
			return
		}
		publicID, _ := claims["publicId"].(string)

		c.Set("userID", uint(userID))
		c.Set("publicID", publicID)
		c.Next()
	}
}
