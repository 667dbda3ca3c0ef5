package jwt

import (
	"testing"
	"time"

	"clinic-console/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(config.FormTokenConfig{Secret: "s3cret", Expiry: time.Minute})
	formID := uuid.New()

	token, err := svc.GenerateFormToken(formID, "receipt")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, formID, claims.FormID)
	assert.Equal(t, "receipt", claims.FormKind)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(config.FormTokenConfig{Secret: "one", Expiry: time.Minute})
	verifier := NewJWTService(config.FormTokenConfig{Secret: "two", Expiry: time.Minute})

	token, err := issuer.GenerateFormToken(uuid.New(), "patient")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService(config.FormTokenConfig{Secret: "s3cret", Expiry: -time.Minute})

	token, err := svc.GenerateFormToken(uuid.New(), "doctor")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
