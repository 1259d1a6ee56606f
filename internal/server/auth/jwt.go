// Package auth issues and parses the access tokens that identify callers
// of the gRPC API. The caller id inside a token is what policy.Policy
// authorizes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the registered claims plus the caller id.
type Claims struct {
	jwt.RegisteredClaims
	CallerID string `json:"caller_id"`
}

func GenerateToken(callerID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   callerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		CallerID: callerID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetCallerIDFromToken validates tokenString and returns its caller id.
// Expired tokens yield common.ErrTokenExpired, everything else
// common.ErrInvalidToken.
func GetCallerIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.CallerID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.CallerID, nil
}
