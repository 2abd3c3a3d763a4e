package provision

import (
	"testing"
	"time"

	"github.com/eatwithme/etm-core/sdk/config"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer(config.JWT{Secret: "test-secret", Timeout: 3600})

	tokenStr, err := issuer.Issue("1234567", "asha@example.com")
	require.NoError(t, err)

	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "1234567", claims["restaurantId"])
	assert.Equal(t, "asha@example.com", claims["email"])

	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	assert.Equal(t, int64(3600), exp-iat)
}

func TestJWTIssuer_WrongSecretRejected(t *testing.T) {
	issuer := NewJWTIssuer(config.JWT{Secret: "test-secret", Timeout: 3600})

	tokenStr, err := issuer.Issue("1234567", "asha@example.com")
	require.NoError(t, err)

	_, err = jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestJWTIssuer_DefaultLifetime(t *testing.T) {
	issuer := NewJWTIssuer(config.JWT{Secret: "test-secret"})
	assert.Equal(t, 24*time.Hour, issuer.timeout)
}
