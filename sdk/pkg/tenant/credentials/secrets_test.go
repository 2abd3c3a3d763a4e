package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"/eatwithme/db-password", "EATWITHME_DB_PASSWORD"},
		{"TENANT_DB_PASSWORD_123", "TENANT_DB_PASSWORD_123"},
		{"plain", "PLAIN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envName(tt.key), tt.key)
	}
}

func TestEnvSecretStore(t *testing.T) {
	t.Setenv("EATWITHME_DB_PASSWORD", "hunter2")

	store := EnvSecretStore{}
	value, err := store.Get(context.Background(), "/eatwithme/db-password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)

	_, err = store.Get(context.Background(), "/eatwithme/missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}
