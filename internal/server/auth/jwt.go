// Package auth issues and verifies the HS256 access tokens used to resolve
// caller identity. Token claims carry the user's e-mail and nickname in
// addition to the id, matching what the web frontend displays.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oullim/market/internal/common"
)

// Claims includes the registered claims plus the identity payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// GenerateToken mints a signed access token for the given identity.
func GenerateToken(userID, email, nickname string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:   userID,
		Email:    email,
		Nickname: nickname,
	})
	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// GetUserIDFromToken is a convenience wrapper for callers that only need the
// user id for ownership checks.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
