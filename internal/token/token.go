// Package token mints and verifies the one-shot verified marker shared by
// the employee-verify endpoint and the client's workflow gate.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cesworks/fieldcheck/internal/common"
)

// VerifiedClaims is the payload of the one-shot verified marker.
type VerifiedClaims struct {
	EmployeeID string `json:"employeeId"`
	jwt.RegisteredClaims
}

// HMACVerifier validates verified tokens with the shared inspection secret.
// Tokens are short-lived: the TTL is set by the server and only trims the
// window further here.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(token string) (string, error) {
	claims := &VerifiedClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.EmployeeID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.EmployeeID, nil
}

// Mint signs a one-shot marker for a verified employee.
func Mint(secret, employeeID string, ttl time.Duration) (string, error) {
	claims := VerifiedClaims{
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
