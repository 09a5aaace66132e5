package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signs an HS256 token carrying both the row id and the public
// UUID so the middleware never needs a database lookup.
func GenerateJWT(secret string, expiry time.Duration, userID uint, publicID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   userID,
		"publicId": publicID,
		"exp":      time.Now().Add(expiry).Unix(),
	})
	return token.SignedString([]byte(secret))
}
