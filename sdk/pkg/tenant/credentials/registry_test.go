package credentials

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatwithme/etm-core/sdk/pkg/crypto"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/cache"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/controlplane"
)

func registryServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/unknown") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
}

func TestRegistryProvider_InlinePassword(t *testing.T) {
	srv := registryServer(t, `{"restaurantId":"1234567","dbName":"tenant_1234567","dbUser":"user_1234567","dbHost":"db1.internal","dbPort":5433,"dbPassword":"plain-pass"}`)
	defer srv.Close()

	p := NewRegistryProvider(
		controlplane.NewClient(srv.URL, time.Second),
		EnvSecretStore{},
	)

	creds, err := p.Resolve(context.Background(), "1234567")
	require.NoError(t, err)
	assert.Equal(t, "db1.internal", creds.Host)
	assert.Equal(t, 5433, creds.Port)
	assert.Equal(t, "plain-pass", creds.Password)
	assert.Equal(t, "tenant_1234567", creds.DBName)
}

func TestRegistryProvider_EncryptedPassword(t *testing.T) {
	cipher, err := crypto.NewCryptoService(strings.Repeat("k", 32))
	require.NoError(t, err)
	encrypted, err := cipher.Encrypt("real-pass")
	require.NoError(t, err)

	srv := registryServer(t, `{"restaurantId":"1","dbName":"tenant_1","dbUser":"user_1","dbPassword":"`+encrypted+`"}`)
	defer srv.Close()

	p := NewRegistryProvider(
		controlplane.NewClient(srv.URL, time.Second),
		EnvSecretStore{},
		WithCipher(cipher),
		WithDefaults("fallback-db.internal", 5432, "require"),
	)

	creds, err := p.Resolve(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "real-pass", creds.Password)
	// host/port fall back to the defaults when the record omits them
	assert.Equal(t, "fallback-db.internal", creds.Host)
	assert.Equal(t, 5432, creds.Port)
}

func TestRegistryProvider_PasswordByReference(t *testing.T) {
	t.Setenv("TENANT_1_DB_PASSWORD", "ref-pass")

	srv := registryServer(t, `{"restaurantId":"1","dbName":"tenant_1","dbUser":"user_1","dbHost":"h","dbPort":5432,"passwordRef":"tenant-1/db-password"}`)
	defer srv.Close()

	p := NewRegistryProvider(controlplane.NewClient(srv.URL, time.Second), EnvSecretStore{})

	creds, err := p.Resolve(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "ref-pass", creds.Password)
}

func TestRegistryProvider_NotFound(t *testing.T) {
	srv := registryServer(t, `{}`)
	defer srv.Close()

	p := NewRegistryProvider(controlplane.NewClient(srv.URL, time.Second), EnvSecretStore{})

	_, err := p.Resolve(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryProvider_EmptyTenantID(t *testing.T) {
	p := NewRegistryProvider(controlplane.NewClient("http://127.0.0.1:1", time.Second), EnvSecretStore{})

	_, err := p.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidTenantID)
}

func TestRegistryProvider_OutageFallsBackToMirror(t *testing.T) {
	t.Setenv("TENANT_1_DB_PASSWORD", "ref-pass")

	mirror := cache.NewFileCacheWithPath(filepath.Join(t.TempDir(), "records.json"))

	var up atomic.Bool
	up.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !up.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"restaurantId":"1","dbName":"tenant_1","dbUser":"user_1","dbHost":"h","dbPort":5432,"passwordRef":"tenant-1/db-password"}`))
	}))
	defer srv.Close()

	p := NewRegistryProvider(
		controlplane.NewClient(srv.URL, time.Second),
		EnvSecretStore{},
		WithFileCache(mirror),
	)

	// first resolution populates the mirror
	_, err := p.Resolve(context.Background(), "1")
	require.NoError(t, err)

	// registry outage: resolution still works from the mirrored record
	up.Store(false)
	creds, err := p.Resolve(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "tenant_1", creds.DBName)
	assert.Equal(t, "ref-pass", creds.Password)

	// the mirror never holds a plaintext password
	rec, ok := mirror.Get("1")
	require.True(t, ok)
	assert.Equal(t, "tenant-1/db-password", rec.PasswordRef)
}

func TestRegistryProvider_OutageWithoutMirrorIsUnavailable(t *testing.T) {
	srv := registryServer(t, ``)
	srv.Close() // immediately unreachable

	p := NewRegistryProvider(controlplane.NewClient(srv.URL, time.Second), EnvSecretStore{})

	_, err := p.Resolve(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUnavailable)
}
