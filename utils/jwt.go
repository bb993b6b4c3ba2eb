package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const adminRole = "admin"

var ErrAdminSecretMissing = errors.New("admin JWT secret is not configured")

// AdminClaims are carried by operator tokens for the /api/admin routes.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// GenerateAdminToken creates a signed HS256 admin token for subject.
func GenerateAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrAdminSecretMissing
	}
	now := time.Now()
	claims := AdminClaims{
		Role: adminRole,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAdminToken parses tokenString and checks signature, expiry and role.
func ValidateAdminToken(secret, tokenString string) (*AdminClaims, error) {
	if secret == "" {
		return nil, ErrAdminSecretMissing
	}
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != adminRole {
		return nil, errors.New("token is not an admin token")
	}
	return claims, nil
}
