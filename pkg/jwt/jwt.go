package jwt

import (
	"errors"
	"time"

	"clinic-console/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims binds a token to exactly one form session.
type Claims struct {
	FormID   uuid.UUID `json:"form_id"`
	FormKind string    `json:"form_kind"`
	jwt.RegisteredClaims
}

type JWTService struct {
	config config.FormTokenConfig
}

func NewJWTService(cfg config.FormTokenConfig) *JWTService {
	return &JWTService{config: cfg}
}

// GenerateFormToken signs a token for the given form session.
func (s *JWTService) GenerateFormToken(formID uuid.UUID, formKind string) (string, error) {
	now := time.Now()
	claims := Claims{
		FormID:   formID,
		FormKind: formKind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   formID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *JWTService) GetExpiry() time.Duration {
	return s.config.Expiry
}
