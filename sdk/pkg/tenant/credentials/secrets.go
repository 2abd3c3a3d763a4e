package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrSecretNotFound means the secret store has no value under the key.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore is a single get-by-key lookup independent of the backing store
// (environment, SSM parameter store, secrets manager, ...).
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
}

// SecretStoreFunc adapts a function to the SecretStore interface.
type SecretStoreFunc func(ctx context.Context, key string) (string, error)

func (f SecretStoreFunc) Get(ctx context.Context, key string) (string, error) {
	return f(ctx, key)
}

// EnvSecretStore reads secrets from environment variables. Keys are upper
// cased and non-alphanumeric runes become underscores, so the reference
// "/eatwithme/db-password" reads EATWITHME_DB_PASSWORD.
type EnvSecretStore struct{}

func (EnvSecretStore) Get(_ context.Context, key string) (string, error) {
	name := envName(key)
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}

func envName(key string) string {
	var b strings.Builder
	for _, r := range strings.Trim(key, "/") {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
