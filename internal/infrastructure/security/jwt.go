// Package security provides token, id and fingerprint utilities.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned for tokens that fail signature or shape checks.
var ErrInvalidToken = errors.New("invalid token")

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// GenerateAttributionToken signs the captured UTM parameters so they can
// ride in a cookie across server-rendered pages.
func GenerateAttributionToken(params map[string]string, jwtSecret string, ttl time.Duration) (string, error) {
	utm := make(map[string]any, len(params))
	for k, v := range params {
		utm[k] = v
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"utm": utm,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ParseAttributionToken returns the UTM parameters of a valid token.
func ParseAttributionToken(tokenString, jwtSecret string) (map[string]string, error) {
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}
	raw, ok := claims["utm"].(map[string]any)
	if !ok {
		return nil, ErrInvalidToken
	}
	params := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			params[k] = s
		}
	}
	return params, nil
}
