// Package utils provides helper functions for password digests and
// session token creation.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed HS256 token carried in the session cookie.
// Token holds the serialized JWT, Exp its UTC expiration.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken builds and signs an HS256 JWT identifying an
// authenticated staff member. Claims: subject (sub) is the user ID,
// login and role carry display/gating data, exp/iat the lifetime.
func NewSessionToken(secret string, userID int64, login, role string, ttlMin int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"login": login,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
