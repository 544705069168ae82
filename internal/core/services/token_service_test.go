package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := services.NewTokenService("secret", "ritmo", time.Hour)

	token, err := svc.Generate("user-42")
	require.NoError(t, err)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestTokenServiceRejects(t *testing.T) {
	svc := services.NewTokenService("secret", "ritmo", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := services.NewTokenService("other-secret", "ritmo", time.Hour)
		token, err := other.Generate("user-42")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := services.NewTokenService("secret", "someone-else", time.Hour)
		token, err := other.Generate("user-42")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := services.NewTokenService("secret", "ritmo", -time.Minute)
		token, err := expired.Generate("user-42")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})
}
