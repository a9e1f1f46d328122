package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier проверяет HS256-токены провайдера аутентификации.
// Сервис токены не выпускает, только читает sub, email и role.
type TokenVerifier struct {
	signingKey []byte
	parser     *jwt.Parser
}

func NewTokenVerifier(signingKey, issuer string) (*TokenVerifier, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenVerifier{signingKey: []byte(signingKey), parser: jwt.NewParser(opts...)}, nil
}

type jwtCustomClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*port.Claims, error) {
	verifierLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TokenVerifier",
		"method":    "Verify",
	})

	token, err := v.parser.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			verifierLogger.Warn("Token has expired", nil)
		} else {
			verifierLogger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		verifierLogger.Error("Token was parsed without error, but claims type assertion failed", nil, nil)
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		verifierLogger.Warn("Token has no subject", nil)
		return nil, domain.ErrTokenInvalid
	}

	return &port.Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
