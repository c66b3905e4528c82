package service

import (
	"fmt"
	"time"

	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenExpiry = 24 * time.Hour

// JWTTokenService implements ports.TokenService with HS256. Tokens are
// issued by the platform's identity service using the same shared secret;
// this core only validates them. Generate exists for tooling and tests.
type JWTTokenService struct {
	secret []byte
	issuer string
}

// NewJWTTokenService creates a new JWTTokenService.
func NewJWTTokenService(secret, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given user and role.
func (s *JWTTokenService) Generate(userID uuid.UUID, role string) (string, time.Time, error) {
	expiry := time.Now().Add(tokenExpiry)
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiry, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperror.ErrInvalidToken()
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}
	if claims.Role != ports.RoleUser && claims.Role != ports.RoleOperator {
		return nil, apperror.ErrInvalidToken()
	}

	return &ports.TokenClaims{
		UserID: userID,
		Role:   claims.Role,
	}, nil
}
