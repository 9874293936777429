package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/refertrack/backend/internal/utils"
)

type AuthService interface {
	// Token exchanges the operator access key for a signed bearer token.
	Token(ctx context.Context, accessKey string) (string, error)
}

type authService struct {
	keyHash string
	secret  []byte
	ttl     time.Duration
}

// NewAuthService hashes the configured access key once at startup; the
// plaintext is never held after that.
func NewAuthService(accessKey, jwtSecret string) (AuthService, error) {
	if accessKey == "" || jwtSecret == "" {
		return nil, errors.New("access key and jwt secret are required")
	}
	hash, err := utils.HashSecret(accessKey)
	if err != nil {
		return nil, err
	}
	return &authService{keyHash: hash, secret: []byte(jwtSecret), ttl: 24 * time.Hour}, nil
}

func (s *authService) Token(_ context.Context, accessKey string) (string, error) {
	const op = "AuthService.Token"

	if err := utils.CheckSecret(s.keyHash, accessKey); err != nil {
		return "", utils.E(utils.CodeUnauthorized, op, "invalid access key", nil)
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "operator",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return token, nil
}
