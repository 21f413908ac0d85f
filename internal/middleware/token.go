// internal/middleware/token.go
package middleware

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Signing key for the demo token. There is no real authentication
	// model; the login endpoint is a stub.
	tokenSecret = "kaul_demo_secret_not_for_production"

	tokenIssuer = "kaul-api"
)

// Claims represents the token claims for the login stub.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken mints the stub token for a user ID. The claims carry no
// timestamps, so the emitted token is a constant for a given user.
func GenerateToken(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  tokenIssuer,
			Subject: userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tokenSecret))
}

// ValidateToken parses and verifies a stub token, returning its claims.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(tokenSecret), nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
