// Package auth issues and validates the JWT access tokens the mobile app
// carries on every request.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/util"
)

const (
	// Issuer is the JWT issuer claim.
	Issuer = "snapsell"
	// KeyID identifies the signing key in the token header.
	KeyID = "v1"
	// AccessTokenDuration matches the mobile app's session length.
	AccessTokenDuration = 30 * 24 * time.Hour
)

// ClaimsMessage carries the authenticated identity: the user, the business
// (tenant) every query is scoped to, and the display username.
type ClaimsMessage struct {
	Username   string `json:"username"`
	BusinessID int32  `json:"businessId"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 token for the user.
func GenerateAccessToken(username string, userID, businessID int32, expiresAt time.Time, secret []byte) (string, error) {
	claims := &ClaimsMessage{
		Username:   username,
		BusinessID: businessID,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti makes every issued token distinct even for back-to-back
			// signins within the same second.
			ID:        util.GenUUID(),
			Issuer:    Issuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = KeyID
	return token.SignedString(secret)
}

// Authenticate parses and verifies a token string, returning its claims.
func Authenticate(tokenString string, secret []byte) (*ClaimsMessage, error) {
	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
