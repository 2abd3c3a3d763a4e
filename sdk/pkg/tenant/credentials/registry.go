package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/eatwithme/etm-core/sdk/pkg/crypto"
	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/cache"
	"github.com/eatwithme/etm-core/sdk/pkg/tenant/controlplane"
)

// RegistryProvider resolves credentials through the control-plane registry.
// The registry record carries host/port/user/dbname; the password is either
// decrypted from the record (AES-256-GCM at rest) or fetched from the secret
// store by reference. Non-secret parameters are mirrored into a file cache so
// resolution survives a registry outage for already-known tenants.
type RegistryProvider struct {
	client  *controlplane.Client
	secrets SecretStore
	cipher  *crypto.CryptoService // nil when passwords are stored plaintext
	mirror  *cache.FileCache      // nil disables the outage fallback

	// fallbacks for records that omit host/port
	DefaultHost    string
	DefaultPort    int
	DefaultSSLMode string
}

func NewRegistryProvider(client *controlplane.Client, secrets SecretStore, opts ...RegistryOption) *RegistryProvider {
	p := &RegistryProvider{
		client:      client,
		secrets:     secrets,
		DefaultPort: 5432,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type RegistryOption func(*RegistryProvider)

// WithCipher enables decryption of passwords stored encrypted in the registry.
func WithCipher(c *crypto.CryptoService) RegistryOption {
	return func(p *RegistryProvider) { p.cipher = c }
}

// WithFileCache mirrors non-secret parameters to disk for outage fallback.
func WithFileCache(fc *cache.FileCache) RegistryOption {
	return func(p *RegistryProvider) { p.mirror = fc }
}

// WithDefaults supplies host/port/sslmode used when the record omits them.
func WithDefaults(host string, port int, sslMode string) RegistryOption {
	return func(p *RegistryProvider) {
		if host != "" {
			p.DefaultHost = host
		}
		if port > 0 {
			p.DefaultPort = port
		}
		p.DefaultSSLMode = sslMode
	}
}

func (p *RegistryProvider) Resolve(ctx context.Context, tenantID string) (Credentials, error) {
	if tenantID == "" {
		return Credentials{}, ErrInvalidTenantID
	}

	record, err := p.client.GetByID(ctx, tenantID)
	switch {
	case err == nil:
		p.remember(record)
		return p.fromRecord(ctx, tenantID, record)
	case errors.Is(err, controlplane.ErrNotFound):
		return Credentials{}, fmt.Errorf("%w: tenant %s", ErrNotFound, tenantID)
	default:
		if creds, ok := p.fromMirror(ctx, tenantID); ok {
			logger.Warnf("credentials: control plane unreachable, using cached record for tenant %s", tenantID)
			return creds, nil
		}
		return Credentials{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func (p *RegistryProvider) fromRecord(ctx context.Context, tenantID string, record *controlplane.Tenant) (Credentials, error) {
	creds := Credentials{
		Host:     record.DBHost,
		Port:     record.DBPort,
		Username: record.DBUser,
		DBName:   record.DBName,
		SSLMode:  p.DefaultSSLMode,
	}
	if creds.Host == "" {
		creds.Host = p.DefaultHost
	}
	if creds.Port == 0 {
		creds.Port = p.DefaultPort
	}

	password, err := p.password(ctx, record)
	if err != nil {
		return Credentials{}, err
	}
	creds.Password = password

	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("registry credentials for tenant %s: %w", tenantID, err)
	}
	return creds, nil
}

func (p *RegistryProvider) password(ctx context.Context, record *controlplane.Tenant) (string, error) {
	if record.PasswordRef != "" {
		value, err := p.secrets.Get(ctx, record.PasswordRef)
		if err != nil {
			if errors.Is(err, ErrSecretNotFound) {
				return "", fmt.Errorf("%w: password reference unresolved", ErrNotFound)
			}
			return "", fmt.Errorf("%w: secret store: %v", ErrUnavailable, err)
		}
		return value, nil
	}

	if p.cipher != nil && record.DBPassword != "" {
		plain, err := p.cipher.Decrypt(record.DBPassword)
		if err != nil {
			return "", fmt.Errorf("decrypting registry password: %w", err)
		}
		return plain, nil
	}

	return record.DBPassword, nil
}

// remember mirrors the non-secret part of the record. The inline password is
// deliberately dropped: the mirror only helps tenants whose password comes
// from the secret store.
func (p *RegistryProvider) remember(record *controlplane.Tenant) {
	if p.mirror == nil {
		return
	}
	err := p.mirror.Put(cache.TenantRecord{
		RestaurantID: record.RestaurantID,
		DBName:       record.DBName,
		Username:     record.DBUser,
		Host:         record.DBHost,
		Port:         record.DBPort,
		SSLMode:      p.DefaultSSLMode,
		PasswordRef:  record.PasswordRef,
	})
	if err != nil {
		logger.Warnf("credentials: mirroring tenant record failed: %v", err)
	}
}

func (p *RegistryProvider) fromMirror(ctx context.Context, tenantID string) (Credentials, bool) {
	if p.mirror == nil {
		return Credentials{}, false
	}
	rec, ok := p.mirror.Get(tenantID)
	if !ok || rec.PasswordRef == "" {
		return Credentials{}, false
	}

	password, err := p.secrets.Get(ctx, rec.PasswordRef)
	if err != nil {
		return Credentials{}, false
	}

	creds := Credentials{
		Host:     rec.Host,
		Port:     rec.Port,
		Username: rec.Username,
		Password: password,
		DBName:   rec.DBName,
		SSLMode:  rec.SSLMode,
	}
	if creds.Host == "" {
		creds.Host = p.DefaultHost
	}
	if creds.Port == 0 {
		creds.Port = p.DefaultPort
	}
	if creds.Validate() != nil {
		return Credentials{}, false
	}
	return creds, true
}
