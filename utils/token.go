package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// One process-level secret signs both kinds of credential: session tokens
// carry the account id as subject, invitation tokens carry the invited email
// as a claim. Validity is bounded by the exp claim in both cases.

func GenerateSessionToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifySessionToken returns the account id the credential was issued for.
func VerifySessionToken(secret, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}

type invitationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateInvitationToken(secret, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := invitationClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyInvitationToken checks signature and expiry and returns the embedded
// email. Callers must not trust a store hit alone; this check is what decides
// whether the grant is still valid.
func VerifyInvitationToken(secret, tokenString string) (string, error) {
	claims := &invitationClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Email == "" {
		return "", fmt.Errorf("invalid invitation token")
	}
	return claims.Email, nil
}
