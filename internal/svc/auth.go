package svc

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// issuer is the jwt "iss" claim for every token this service signs.
const issuer = "glintd"

// HashPassword bcrypt-hashes a plaintext operator password for storage in
// Config.Operator.PasswordHash.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the given bcrypt hash.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// generateToken issues a bearer token for the single operator account,
// grounded on server/token.go's generateJWT.
func generateToken(secret []byte, username string) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": username,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// getBearerToken extracts the token from an "Authorization: Bearer ..."
// header, grounded on server/token.go's getJWT.
func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return strings.TrimSpace(parts[1]), nil
}

// validateToken parses and validates a bearer token against secret,
// returning the subject (operator username) it was issued to.
func validateToken(tokStr string, secret []byte) (string, error) {
	tok, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}

	subj, err := tok.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("cannot get subject: %w", err)
	}

	return subj, nil
}
