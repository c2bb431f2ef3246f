package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken wraps a session ID in a signed JWT. The JWT carries no user
// data and no exp claim; lifetime is owned entirely by the store record,
// so expiry and revocation look the same to a token holder.
func signToken(secret, sid string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// parseToken extracts the session ID from a credential. Any parse or
// signature failure maps to ErrInvalidSession; the caller never learns
// which check failed.
func parseToken(secret, credential string) (string, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidSession
	}
	return sid, nil
}
